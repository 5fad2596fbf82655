package model

var promotionTypes = [...]PieceType{Queen, Rook, Bishop, Knight}

// Perft counts the leaf nodes of the legal move tree depth half-moves deep
// from the current position, for the side to move. Each promotion counts once
// per promotion piece. The position is left unchanged.
func (g *Game) Perft(depth int) int {
	if g.status.Terminal() || g.status == StatusPromotionPending {
		return 0
	}
	return g.board.perft(g.turn, depth)
}

func (b *Board) perft(c Color, depth int) int {
	if depth == 0 {
		return 1
	}
	nodes := 0
	for _, m := range b.legalMoves(c) {
		mover := b.At(m.From)
		promotes := mover.Type == Pawn && m.To.Rank == c.promotionRank()
		if promotes && depth == 1 {
			nodes += len(promotionTypes)
			continue
		}
		if depth == 1 {
			nodes++
			continue
		}
		u := b.apply(m)
		if promotes {
			for _, t := range promotionTypes {
				pawn := b.promote(m.To, t)
				nodes += b.perft(c.Opponent(), depth-1)
				b.remove(m.To)
				b.place(m.To, pawn)
			}
		} else {
			nodes += b.perft(c.Opponent(), depth-1)
		}
		b.revert(u)
	}
	return nodes
}
