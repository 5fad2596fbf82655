package model

import (
	"testing"
)

func mustFEN(t *testing.T, fen string) *Game {
	t.Helper()
	g, err := NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q): %v", fen, err)
	}
	return g
}

func mustSquare(t *testing.T, text string) Square {
	t.Helper()
	sq, err := ParseSquare(text)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", text, err)
	}
	return sq
}

// play submits each move in turn and returns the last outcome.
func play(t *testing.T, g *Game, moves ...string) Outcome {
	t.Helper()
	var outcome Outcome
	for _, text := range moves {
		var err error
		outcome, err = g.SubmitText(text)
		if err != nil {
			t.Fatalf("SubmitText(%q): %v", text, err)
		}
	}
	return outcome
}

func legalStrings(g *Game, c Color) map[string]bool {
	set := make(map[string]bool)
	for m := range g.LegalMoves(c) {
		set[m.String()] = true
	}
	return set
}

// cloneBoard deep-copies b with fresh piece pointers.
func cloneBoard(b *Board) *Board {
	c := &Board{kings: b.kings, ply: b.ply}
	for rank := range b.squares {
		for file, p := range b.squares[rank] {
			if p != nil {
				cp := *p
				c.squares[rank][file] = &cp
			}
		}
	}
	if b.lastMove != nil {
		lm := *b.lastMove
		c.lastMove = &lm
	}
	return c
}
