package model

import "encoding/json"

type MoveKind uint8

const (
	MoveNormal MoveKind = iota
	// MoveEnPassant captures the pawn on Aux, not on To.
	MoveEnPassant
	// MoveCastle also carries the rook to Aux.
	MoveCastle
)

func (k MoveKind) String() string {
	switch k {
	case MoveEnPassant:
		return "enPassant"
	case MoveCastle:
		return "castle"
	}
	return "normal"
}

// Move describes one half-move. Aux is only meaningful for en passant and
// castling, and its meaning is fixed by Kind.
type Move struct {
	From Square
	To   Square
	Kind MoveKind
	Aux  Square
}

// String returns the long algebraic form, e.g. "e2e4".
func (m Move) String() string {
	return m.From.String() + m.To.String()
}

func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// rookOrigin is the corner the castling rook starts from.
func (m Move) rookOrigin() Square {
	if m.To.File > m.From.File {
		return Square{Rank: m.From.Rank, File: boardSize - 1}
	}
	return Square{Rank: m.From.Rank, File: 0}
}

// transit is the square the king crosses while castling.
func (m Move) transit() Square {
	return Square{Rank: m.From.Rank, File: (m.From.File + m.To.File) / 2}
}

type pieceState struct {
	piece    *Piece
	hasMoved bool
	lastPly  int
}

func savePiece(p *Piece) pieceState {
	return pieceState{piece: p, hasMoved: p.HasMoved, lastPly: p.lastPly}
}

func (s pieceState) restore() {
	s.piece.HasMoved = s.hasMoved
	s.piece.lastPly = s.lastPly
}

// undo holds what revert needs to put the board back exactly as it was.
type undo struct {
	move       Move
	mover      pieceState
	rook       pieceState
	captured   *Piece
	capturedAt Square
	lastMove   *LastMove
}

// apply commits m to the board. The returned undo must be passed to revert
// before any other mutation if the move is only being simulated.
func (b *Board) apply(m Move) undo {
	mover := b.At(m.From)
	u := undo{move: m, mover: savePiece(mover), lastMove: b.lastMove}

	switch m.Kind {
	case MoveEnPassant:
		u.captured, u.capturedAt = b.remove(m.Aux), m.Aux
	default:
		if b.At(m.To) != nil {
			u.captured, u.capturedAt = b.remove(m.To), m.To
		}
	}

	b.relocate(m.From, m.To)
	if m.Kind == MoveCastle {
		rookFrom := m.rookOrigin()
		u.rook = savePiece(b.At(rookFrom))
		b.relocate(rookFrom, m.Aux)
	}

	b.lastMove = &LastMove{
		From:       m.From,
		To:         m.To,
		DoubleStep: mover.Type == Pawn && abs(m.To.Rank-m.From.Rank) == 2,
	}
	b.ply++
	return u
}

func (b *Board) revert(u undo) {
	m := u.move
	b.ply--
	b.lastMove = u.lastMove
	if m.Kind == MoveCastle {
		b.place(m.rookOrigin(), b.remove(m.Aux))
		u.rook.restore()
	}
	b.place(m.From, b.remove(m.To))
	u.mover.restore()
	if u.captured != nil {
		b.place(u.capturedAt, u.captured)
	}
}

// promote swaps the pawn on sq for a new piece of type t that carries over
// the pawn's move bookkeeping. It returns the pawn so the swap can be undone.
func (b *Board) promote(sq Square, t PieceType) *Piece {
	pawn := b.remove(sq)
	promoted := newPiece(t, pawn.Color)
	promoted.HasMoved = pawn.HasMoved
	promoted.lastPly = pawn.lastPly
	b.place(sq, promoted)
	return pawn
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
