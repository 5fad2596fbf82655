package model

import "fmt"

// LastMove records the most recent committed half-move. It is the only move
// history the rules need.
type LastMove struct {
	From       Square `json:"from"`
	To         Square `json:"to"`
	DoubleStep bool   `json:"doubleStep"`
}

// Board is the position model: which piece stands on which square, plus the
// little bookkeeping castling and en passant depend on.
type Board struct {
	squares  [boardSize][boardSize]*Piece
	kings    [2]Square
	ply      int
	lastMove *LastMove
}

var backRankOrder = [boardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func newBoard() *Board {
	board := &Board{}
	for file := 0; file < boardSize; file++ {
		board.place(Square{Rank: 0, File: file}, newPiece(backRankOrder[file], Black))
		board.place(Square{Rank: 1, File: file}, newPiece(Pawn, Black))
		board.place(Square{Rank: 6, File: file}, newPiece(Pawn, White))
		board.place(Square{Rank: 7, File: file}, newPiece(backRankOrder[file], White))
	}
	return board
}

func emptyBoard() *Board {
	return &Board{kings: [2]Square{{-1, -1}, {-1, -1}}}
}

// At returns the piece on sq, or nil when the square is empty or off the board.
func (b *Board) At(sq Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	return b.squares[sq.Rank][sq.File]
}

func (b *Board) place(sq Square, p *Piece) {
	b.squares[sq.Rank][sq.File] = p
	if p.Type == King {
		b.kings[p.Color] = sq
	}
}

func (b *Board) remove(sq Square) *Piece {
	p := b.squares[sq.Rank][sq.File]
	b.squares[sq.Rank][sq.File] = nil
	return p
}

// relocate moves the piece on from to the empty square to and stamps it as
// moved on the current ply.
func (b *Board) relocate(from, to Square) *Piece {
	p := b.remove(from)
	p.HasMoved = true
	p.lastPly = b.ply
	b.place(to, p)
	return p
}

func (b *Board) kingSquare(c Color) Square {
	sq := b.kings[c]
	if p := b.At(sq); p == nil || p.Type != King || p.Color != c {
		panic(fmt.Sprintf("model: no %s king on the board", c))
	}
	return sq
}

// occupied lists the squares holding pieces of color c, rank by rank.
func (b *Board) occupied(c Color) []Square {
	squares := make([]Square, 0, 16)
	for rank := 0; rank < boardSize; rank++ {
		for file := 0; file < boardSize; file++ {
			if p := b.squares[rank][file]; p != nil && p.Color == c {
				squares = append(squares, Square{Rank: rank, File: file})
			}
		}
	}
	return squares
}

// Snapshot returns a copy of the occupied squares. Mutating it does not
// touch the board.
func (b *Board) Snapshot() map[Square]Piece {
	snapshot := make(map[Square]Piece, 32)
	for rank := 0; rank < boardSize; rank++ {
		for file := 0; file < boardSize; file++ {
			if p := b.squares[rank][file]; p != nil {
				snapshot[Square{Rank: rank, File: file}] = *p
			}
		}
	}
	return snapshot
}
