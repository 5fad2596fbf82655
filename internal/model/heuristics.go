package model

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// Strategy selects how a computer opponent picks its move.
type Strategy string

const (
	StrategyRandom Strategy = "random"
	StrategyGreedy Strategy = "greedy"
)

func ParseStrategy(text string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(text))); s {
	case StrategyRandom, StrategyGreedy:
		return s, nil
	}
	return "", fmt.Errorf("unknown strategy %q", text)
}

// Suggest picks a move for c with the given strategy.
func (g *Game) Suggest(s Strategy, c Color, rng *rand.Rand) (Move, bool) {
	if s == StrategyGreedy {
		return g.SuggestGreedyMove(c, rng)
	}
	return g.SuggestRandomMove(c, rng)
}

// SuggestRandomMove picks uniformly among the legal moves of c.
func (g *Game) SuggestRandomMove(c Color, rng *rand.Rand) (Move, bool) {
	if g.status != StatusInProgress {
		return Move{}, false
	}
	return pick(slices.Collect(g.LegalMoves(c)), rng)
}

// SuggestGreedyMove prefers moves that capture and give check, then moves
// that give check, then captures, then anything legal. Ties are broken at
// random.
func (g *Game) SuggestGreedyMove(c Color, rng *rand.Rand) (Move, bool) {
	if g.status != StatusInProgress {
		return Move{}, false
	}
	var captureChecks, checks, captures, quiet []Move
	for m := range g.LegalMoves(c) {
		capture := g.board.At(m.To) != nil
		u := g.board.apply(m)
		check := g.board.isKingAttacked(c.Opponent())
		g.board.revert(u)

		switch {
		case capture && check:
			captureChecks = append(captureChecks, m)
		case check:
			checks = append(checks, m)
		case capture:
			captures = append(captures, m)
		default:
			quiet = append(quiet, m)
		}
	}
	for _, tier := range [][]Move{captureChecks, checks, captures, quiet} {
		if len(tier) > 0 {
			return pick(tier, rng)
		}
	}
	return Move{}, false
}

func pick(moves []Move, rng *rand.Rand) (Move, bool) {
	if len(moves) == 0 {
		return Move{}, false
	}
	return moves[rng.IntN(len(moves))], true
}
