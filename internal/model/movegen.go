package model

// pseudoMoves generates every move of the piece on from that follows its
// movement pattern, without regard to the safety of its own king. Castling
// candidates are only produced when withCastling is set.
func (b *Board) pseudoMoves(from Square, withCastling bool) []Move {
	piece := b.At(from)
	if piece == nil {
		return nil
	}
	switch piece.Type {
	case Pawn:
		return b.pawnMoves(from, piece)
	case Knight:
		return b.stepMoves(from, piece, knightDirs)
	case Bishop:
		return b.slideMoves(from, piece, bishopDirs)
	case Rook:
		return b.slideMoves(from, piece, rookDirs)
	case Queen:
		return b.slideMoves(from, piece, queenDirs)
	case King:
		moves := b.stepMoves(from, piece, kingDirs)
		if withCastling {
			moves = append(moves, b.castleMoves(from, piece)...)
		}
		return moves
	}
	return nil
}

// slideMoves walks each ray until the board edge or the first occupied
// square, which is included when it holds an enemy piece.
func (b *Board) slideMoves(from Square, piece *Piece, dirs []direction) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		for target := from.offset(dir); target.Valid(); target = target.offset(dir) {
			occupant := b.At(target)
			if occupant == nil {
				moves = append(moves, Move{From: from, To: target})
				continue
			}
			if occupant.Color != piece.Color {
				moves = append(moves, Move{From: from, To: target})
			}
			break
		}
	}
	return moves
}

func (b *Board) stepMoves(from Square, piece *Piece, dirs []direction) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		target := from.offset(dir)
		if !target.Valid() {
			continue
		}
		if occupant := b.At(target); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, Move{From: from, To: target})
		}
	}
	return moves
}

func (b *Board) pawnMoves(from Square, piece *Piece) []Move {
	moves := []Move{}
	fwd := piece.Color.forward()

	one := Square{Rank: from.Rank + fwd, File: from.File}
	if one.Valid() && b.At(one) == nil {
		moves = append(moves, Move{From: from, To: one})
		two := Square{Rank: from.Rank + 2*fwd, File: from.File}
		if !piece.HasMoved && two.Valid() && b.At(two) == nil {
			moves = append(moves, Move{From: from, To: two})
		}
	}

	for _, side := range []int{-1, 1} {
		target := Square{Rank: from.Rank + fwd, File: from.File + side}
		if occupant := b.At(target); occupant != nil && occupant.Color != piece.Color {
			moves = append(moves, Move{From: from, To: target})
		}
	}

	if from.Rank == piece.Color.enPassantRank() {
		for _, side := range []int{-1, 1} {
			beside := Square{Rank: from.Rank, File: from.File + side}
			if b.canTakeEnPassant(piece, beside) {
				moves = append(moves, Move{
					From: from,
					To:   Square{Rank: from.Rank + fwd, File: beside.File},
					Kind: MoveEnPassant,
					Aux:  beside,
				})
			}
		}
	}
	return moves
}

// canTakeEnPassant reports whether the pawn on beside double-stepped on the
// half-move just played, making it capturable by piece.
func (b *Board) canTakeEnPassant(piece *Piece, beside Square) bool {
	target := b.At(beside)
	if target == nil || target.Type != Pawn || target.Color == piece.Color {
		return false
	}
	last := b.lastMove
	return last != nil && last.DoubleStep && last.To == beside && target.lastPly == b.ply-1
}

// castleMoves yields the castling candidates of an unmoved king. Attacked
// squares are not considered here.
func (b *Board) castleMoves(from Square, king *Piece) []Move {
	if king.HasMoved || from != king.Color.kingHome() {
		return nil
	}
	rank := from.Rank
	var moves []Move
	if b.emptyBetween(rank, from.File, boardSize-1) && b.unmovedRook(Square{Rank: rank, File: boardSize - 1}, king.Color) {
		moves = append(moves, Move{
			From: from,
			To:   Square{Rank: rank, File: from.File + 2},
			Kind: MoveCastle,
			Aux:  Square{Rank: rank, File: from.File + 1},
		})
	}
	if b.emptyBetween(rank, 0, from.File) && b.unmovedRook(Square{Rank: rank, File: 0}, king.Color) {
		moves = append(moves, Move{
			From: from,
			To:   Square{Rank: rank, File: from.File - 2},
			Kind: MoveCastle,
			Aux:  Square{Rank: rank, File: from.File - 1},
		})
	}
	return moves
}

// emptyBetween reports whether every square strictly between files lo and hi
// on rank is empty.
func (b *Board) emptyBetween(rank, lo, hi int) bool {
	for file := lo + 1; file < hi; file++ {
		if b.squares[rank][file] != nil {
			return false
		}
	}
	return true
}

func (b *Board) unmovedRook(sq Square, c Color) bool {
	p := b.At(sq)
	return p != nil && p.Type == Rook && p.Color == c && !p.HasMoved
}
