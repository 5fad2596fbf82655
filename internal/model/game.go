package model

import (
	"iter"
	"strings"
)

type Status string

const (
	StatusInProgress       Status = "inProgress"
	StatusPromotionPending Status = "promotionPending"
	StatusCheckmate        Status = "checkmate"
	StatusStalemate        Status = "stalemate"
	StatusTerminated       Status = "terminated"
)

// Terminal reports whether no further moves are accepted.
func (s Status) Terminal() bool {
	return s == StatusCheckmate || s == StatusStalemate || s == StatusTerminated
}

type OutcomeKind string

const (
	OutcomeAccepted          OutcomeKind = "accepted"
	OutcomePromotionRequired OutcomeKind = "promotionRequired"
	OutcomeGameOver          OutcomeKind = "gameOver"
)

// Outcome is the answer to an accepted request.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`
	// Turn is the side to move once the request has been applied.
	Turn   Color   `json:"turn"`
	Status Status  `json:"status"`
	Winner *Color  `json:"winner,omitempty"`
	Square *Square `json:"square,omitempty"`
	// Move is the accepted move in long algebraic form.
	Move string `json:"move,omitempty"`
}

// Game is the rules state machine. It is not safe for concurrent use; every
// legality probe mutates the board and reverts it.
type Game struct {
	board     *Board
	turn      Color
	status    Status
	winner    Color
	promotion Square
}

func NewGame() *Game {
	return &Game{board: newBoard(), turn: White, status: StatusInProgress}
}

func (g *Game) Turn() Color {
	return g.turn
}

func (g *Game) Status() Status {
	return g.status
}

// Winner returns the side that delivered checkmate.
func (g *Game) Winner() (Color, bool) {
	return g.winner, g.status == StatusCheckmate
}

// PromotionPending returns the square of the pawn waiting to be promoted.
func (g *Game) PromotionPending() (Square, bool) {
	return g.promotion, g.status == StatusPromotionPending
}

// Position returns a read-only snapshot of the board.
func (g *Game) Position() map[Square]Piece {
	return g.board.Snapshot()
}

func (g *Game) PieceAt(sq Square) (Piece, bool) {
	p := g.board.At(sq)
	if p == nil {
		return Piece{}, false
	}
	return *p, true
}

func (g *Game) InCheck(c Color) bool {
	return g.board.isKingAttacked(c)
}

func (g *Game) LastMove() (LastMove, bool) {
	if g.board.lastMove == nil {
		return LastMove{}, false
	}
	return *g.board.lastMove, true
}

// LegalMoves lazily yields the legal moves of color c. Each call recomputes
// from the current position; the sequence must not be resumed after the game
// changes.
func (g *Game) LegalMoves(c Color) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for _, from := range g.board.occupied(c) {
			for _, m := range g.board.pseudoMoves(from, true) {
				if g.board.isLegal(m) && !yield(m) {
					return
				}
			}
		}
	}
}

// SubmitMove plays the piece on from to to for the side to move.
func (g *Game) SubmitMove(from, to Square) (Outcome, error) {
	text := from.String() + to.String()
	switch {
	case g.status.Terminal():
		return Outcome{}, reject(text, ErrGameOver)
	case g.status == StatusPromotionPending:
		return Outcome{}, reject(text, ErrInvalidPromotion)
	case !from.Valid() || !to.Valid():
		return Outcome{}, reject(text, ErrMalformedMove)
	}

	piece := g.board.At(from)
	if piece == nil {
		return Outcome{}, reject(text, ErrNoPiece)
	}
	if piece.Color != g.turn {
		return Outcome{}, reject(text, ErrWrongColor)
	}

	var move Move
	found := false
	for _, m := range g.board.pseudoMoves(from, true) {
		if m.To == to && g.board.isLegal(m) {
			move, found = m, true
			break
		}
	}
	if !found {
		return Outcome{}, reject(text, ErrIllegalMove)
	}

	g.board.apply(move)
	if piece.Type == Pawn && to.Rank == piece.Color.promotionRank() {
		g.status = StatusPromotionPending
		g.promotion = to
		sq := to
		return Outcome{Kind: OutcomePromotionRequired, Turn: g.turn, Status: g.status, Square: &sq, Move: move.String()}, nil
	}
	outcome := g.endTurn()
	outcome.Move = move.String()
	return outcome, nil
}

// SubmitText decodes long algebraic text such as "e2e4" and submits it.
// "q" and "quit" end the game.
func (g *Game) SubmitText(text string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "q", "quit":
		return g.Quit()
	}
	from, to, err := ParseMoveText(text)
	if err != nil {
		return Outcome{}, reject(text, err)
	}
	return g.SubmitMove(from, to)
}

// SubmitPromotion completes a pending promotion with a piece of type t.
func (g *Game) SubmitPromotion(t PieceType) (Outcome, error) {
	if g.status.Terminal() {
		return Outcome{}, reject("", ErrGameOver)
	}
	if g.status != StatusPromotionPending || !t.canPromoteTo() {
		return Outcome{}, reject(string(t), ErrInvalidPromotion)
	}
	g.board.promote(g.promotion, t)
	g.status = StatusInProgress
	return g.endTurn(), nil
}

// Quit ends the game without a result.
func (g *Game) Quit() (Outcome, error) {
	if g.status.Terminal() {
		return Outcome{}, reject("", ErrGameOver)
	}
	g.status = StatusTerminated
	return Outcome{Kind: OutcomeGameOver, Turn: g.turn, Status: g.status}, nil
}

// endTurn hands the move to the other side and settles checkmate and
// stalemate.
func (g *Game) endTurn() Outcome {
	mover := g.turn
	g.turn = mover.Opponent()
	if g.board.hasLegalMove(g.turn) {
		return Outcome{Kind: OutcomeAccepted, Turn: g.turn, Status: g.status}
	}
	if g.board.isKingAttacked(g.turn) {
		g.status = StatusCheckmate
		g.winner = mover
		winner := mover
		return Outcome{Kind: OutcomeGameOver, Turn: g.turn, Status: g.status, Winner: &winner}
	}
	g.status = StatusStalemate
	return Outcome{Kind: OutcomeGameOver, Turn: g.turn, Status: g.status}
}
