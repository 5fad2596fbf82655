package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for rejected requests. Use errors.Is to tell them apart;
// none of them changes the game.
var (
	// ErrMalformedMove indicates move or square text that could not be decoded.
	ErrMalformedMove = errors.New("malformed move")

	// ErrNoPiece indicates an empty origin square.
	ErrNoPiece = errors.New("no piece at origin")

	// ErrWrongColor indicates a piece of the side not to move.
	ErrWrongColor = errors.New("wrong color")

	// ErrIllegalMove indicates a destination that is not among the legal ones.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidPromotion indicates a missing or unusable promotion choice
	// while a pawn waits to be promoted, or a promotion with none pending.
	ErrInvalidPromotion = errors.New("invalid promotion")

	// ErrGameOver indicates a request made after checkmate, stalemate or quit.
	ErrGameOver = errors.New("game is over")

	// ErrInvalidFEN indicates a setup string that is malformed or describes an
	// impossible position.
	ErrInvalidFEN = errors.New("invalid FEN")
)

// MoveError wraps a rejection with the move that caused it.
type MoveError struct {
	Move string
	Err  error
}

func (e *MoveError) Error() string {
	if e.Move == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("move %s: %v", e.Move, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func reject(move string, err error) error {
	return &MoveError{Move: move, Err: err}
}
