package model

// isKingAttacked reports whether any piece of c's opponent could move onto
// c's king. Only pseudo-legal generation is used, so this never recurses into
// the legality filter.
func (b *Board) isKingAttacked(c Color) bool {
	king := b.kingSquare(c)
	for _, from := range b.occupied(c.Opponent()) {
		for _, m := range b.pseudoMoves(from, false) {
			if m.To == king {
				return true
			}
		}
	}
	return false
}

// safeAfter simulates m and reports whether c's king is left unattacked.
func (b *Board) safeAfter(m Move, c Color) bool {
	u := b.apply(m)
	defer b.revert(u)
	return !b.isKingAttacked(c)
}

// isLegal filters a pseudo-legal move. A castling king must not start in,
// pass through, or land in check.
func (b *Board) isLegal(m Move) bool {
	mover := b.At(m.From)
	if mover == nil {
		return false
	}
	if m.Kind != MoveCastle {
		return b.safeAfter(m, mover.Color)
	}
	if b.isKingAttacked(mover.Color) {
		return false
	}
	if !b.safeAfter(m, mover.Color) {
		return false
	}
	return b.safeAfter(Move{From: m.From, To: m.transit()}, mover.Color)
}

// legalMovesFrom returns the legal moves of the piece on from.
func (b *Board) legalMovesFrom(from Square) []Move {
	var legal []Move
	for _, m := range b.pseudoMoves(from, true) {
		if b.isLegal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

func (b *Board) legalMoves(c Color) []Move {
	var legal []Move
	for _, from := range b.occupied(c) {
		legal = append(legal, b.legalMovesFrom(from)...)
	}
	return legal
}

func (b *Board) hasLegalMove(c Color) bool {
	for _, from := range b.occupied(c) {
		for _, m := range b.pseudoMoves(from, true) {
			if b.isLegal(m) {
				return true
			}
		}
	}
	return false
}
