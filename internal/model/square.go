package model

import (
	"fmt"
	"strings"
)

const boardSize = 8

// Square is a board coordinate. Rank 0 is the top row of the internal grid
// (rank "8" in text form) and File 0 is the a-file.
type Square struct {
	Rank int `json:"rank"`
	File int `json:"file"`
}

func (s Square) Valid() bool {
	return s.Rank >= 0 && s.Rank < boardSize && s.File >= 0 && s.File < boardSize
}

func (s Square) offset(d direction) Square {
	return Square{Rank: s.Rank + d.rank, File: s.File + d.file}
}

// String returns the algebraic name of the square, e.g. "e4".
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Rank, s.File)
	}
	return fmt.Sprintf("%c%d", 'a'+s.File, boardSize-s.Rank)
}

func (s Square) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("square %v: %w", s, ErrMalformedMove)
	}
	return []byte(s.String()), nil
}

func (s *Square) UnmarshalText(text []byte) error {
	sq, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}

// ParseSquare decodes a two character square name such as "e2". Upper case
// file letters are accepted.
func ParseSquare(text string) (Square, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) != 2 {
		return Square{}, fmt.Errorf("square %q: %w", text, ErrMalformedMove)
	}
	file, rank := text[0], text[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("square %q: %w", text, ErrMalformedMove)
	}
	return Square{Rank: boardSize - int(rank-'0'), File: int(file - 'a')}, nil
}

// ParseMoveText decodes long algebraic move text ("e2e4") into its origin and
// destination squares.
func ParseMoveText(text string) (Square, Square, error) {
	text = strings.TrimSpace(text)
	if len(text) != 4 {
		return Square{}, Square{}, fmt.Errorf("move %q: %w", text, ErrMalformedMove)
	}
	from, err := ParseSquare(text[:2])
	if err != nil {
		return Square{}, Square{}, err
	}
	to, err := ParseSquare(text[2:])
	if err != nil {
		return Square{}, Square{}, err
	}
	return from, to, nil
}

type direction struct {
	rank, file int
}

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]direction{}, rookDirs...), bishopDirs...)
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingDirs   = queenDirs
)
