package model

import (
	"fmt"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenPieces = map[byte]PieceType{
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
}

// NewGameFromFEN sets up a game from Forsyth-Edwards Notation. Castling rights
// and the en passant target are translated into the moved flags and last move
// the rules consult. The move clocks are accepted but not used.
func NewGameFromFEN(fen string) (*Game, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: expected at least 2 fields, got %d", ErrInvalidFEN, len(fields))
	}

	board, err := parsePlacement(fields[0])
	if err != nil {
		return nil, err
	}

	turn, err := ParseColor(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}

	castling := "-"
	if len(fields) > 2 {
		castling = fields[2]
	}
	if err := applyCastlingRights(board, castling); err != nil {
		return nil, err
	}

	if len(fields) > 3 && fields[3] != "-" {
		if err := applyEnPassantTarget(board, fields[3], turn); err != nil {
			return nil, err
		}
	}

	if board.isKingAttacked(turn.Opponent()) {
		return nil, fmt.Errorf("%w: side not to move is in check", ErrInvalidFEN)
	}

	g := &Game{board: board, turn: turn, status: StatusInProgress}
	if !board.hasLegalMove(turn) {
		if board.isKingAttacked(turn) {
			g.status, g.winner = StatusCheckmate, turn.Opponent()
		} else {
			g.status = StatusStalemate
		}
	}
	return g, nil
}

func parsePlacement(placement string) (*Board, error) {
	rows := strings.Split(placement, "/")
	if len(rows) != boardSize {
		return nil, fmt.Errorf("%w: expected %d ranks, got %d", ErrInvalidFEN, boardSize, len(rows))
	}
	board := emptyBoard()
	kings := [2]int{}
	for rank, row := range rows {
		file := 0
		for i := 0; i < len(row); i++ {
			ch := row[i]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			t, ok := fenPieces[toLower(ch)]
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
			}
			if file >= boardSize {
				return nil, fmt.Errorf("%w: rank %d is too long", ErrInvalidFEN, boardSize-rank)
			}
			color := White
			if ch == toLower(ch) {
				color = Black
			}
			if t == Pawn && (rank == 0 || rank == boardSize-1) {
				return nil, fmt.Errorf("%w: pawn on back rank", ErrInvalidFEN)
			}
			p := newPiece(t, color)
			p.HasMoved = !onStartSquare(t, color, Square{Rank: rank, File: file})
			if t == King {
				kings[color]++
			}
			board.place(Square{Rank: rank, File: file}, p)
			file++
		}
		if file != boardSize {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, boardSize-rank, file)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return nil, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}
	return board, nil
}

// onStartSquare reports whether a piece of type t and color c could still be
// unmoved on sq. Kings and rooks count as moved until a castling right says
// otherwise.
func onStartSquare(t PieceType, c Color, sq Square) bool {
	switch t {
	case Pawn:
		return sq.Rank == c.backRank()+c.forward()
	case King, Rook:
		return false
	}
	return sq.Rank == c.backRank() && backRankOrder[sq.File] == t
}

func applyCastlingRights(board *Board, rights string) error {
	if rights == "-" {
		return nil
	}
	for i := 0; i < len(rights); i++ {
		ch := rights[i]
		color := White
		if ch == toLower(ch) {
			color = Black
		}
		var rookFile int
		switch toLower(ch) {
		case 'k':
			rookFile = boardSize - 1
		case 'q':
			rookFile = 0
		default:
			return fmt.Errorf("%w: bad castling field %q", ErrInvalidFEN, rights)
		}
		home := color.kingHome()
		king := board.At(home)
		rook := board.At(Square{Rank: home.Rank, File: rookFile})
		if king == nil || king.Type != King || king.Color != color ||
			rook == nil || rook.Type != Rook || rook.Color != color {
			return fmt.Errorf("%w: castling right %q without king and rook at home", ErrInvalidFEN, ch)
		}
		king.HasMoved = false
		rook.HasMoved = false
	}
	return nil
}

// applyEnPassantTarget records the double step that produced target as the
// last move, so the capture is offered on this turn only.
func applyEnPassantTarget(board *Board, target string, turn Color) error {
	sq, err := ParseSquare(target)
	if err != nil {
		return fmt.Errorf("%w: bad en passant square %q", ErrInvalidFEN, target)
	}
	mover := turn.Opponent()
	if sq.Rank != mover.backRank()+2*mover.forward() {
		return fmt.Errorf("%w: en passant square %q is not behind a %s double step", ErrInvalidFEN, target, mover)
	}
	from := Square{Rank: sq.Rank - mover.forward(), File: sq.File}
	to := Square{Rank: sq.Rank + mover.forward(), File: sq.File}
	pawn := board.At(to)
	if !from.Valid() || !to.Valid() || pawn == nil || pawn.Type != Pawn || pawn.Color != mover ||
		board.At(sq) != nil || board.At(from) != nil {
		return fmt.Errorf("%w: no double step behind en passant square %q", ErrInvalidFEN, target)
	}
	board.ply = 1
	pawn.lastPly = 0
	board.lastMove = &LastMove{From: from, To: to, DoubleStep: true}
	return nil
}

func toLower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + 'a' - 'A'
	}
	return ch
}
