package model

import (
	"fmt"
	"strings"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the rank delta of a pawn advance.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) backRank() int {
	if c == White {
		return boardSize - 1
	}
	return 0
}

func (c Color) kingHome() Square {
	return Square{Rank: c.backRank(), File: 4}
}

// promotionRank is the far rank a pawn of this color promotes on.
func (c Color) promotionRank() int {
	return c.Opponent().backRank()
}

// enPassantRank is the rank a pawn must stand on to capture en passant.
func (c Color) enPassantRank() int {
	if c == White {
		return 3
	}
	return 4
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func ParseColor(text string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", text)
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) canPromoteTo() bool {
	switch p {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

// ParsePromotion maps a promotion choice to its piece type. Both the short
// ("q", "r", "b", "n") and long forms are accepted; "k" also means knight.
func ParsePromotion(text string) (PieceType, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "q", "queen":
		return Queen, nil
	case "r", "rook":
		return Rook, nil
	case "b", "bishop":
		return Bishop, nil
	case "n", "k", "knight":
		return Knight, nil
	}
	return "", fmt.Errorf("promotion %q: %w", text, ErrInvalidPromotion)
}

// Piece is a single man on the board. A piece keeps its identity while it
// moves; HasMoved and lastPly replace a full list of visited squares.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
	// lastPly is the half-move index of the piece's latest move, -1 if it
	// never moved.
	lastPly int
}

func newPiece(t PieceType, c Color) *Piece {
	return &Piece{Type: t, Color: c, lastPly: -1}
}
