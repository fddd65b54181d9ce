// internal/game/types.go
//
// Core type definitions for the chess rules engine.
// Defines:
//   - Color: side to move / piece owner (white, black).
//   - PieceType: closed set of the six piece kinds.
//   - Square: one of the 64 board coordinates (file A–H, rank 1–8).
//   - Piece: identity-bearing game object with its computed legal sets.
//   - State: lifecycle of a game (active, finished).

package game

import (
	"fmt"
	"sort"
	"strings"
)

// Color identifies a side. Values render lower-case in snapshots.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Other returns the opposing color.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// Valid reports whether c is one of the two sides.
func (c Color) Valid() bool { return c == White || c == Black }

// ParseColor accepts "white"/"black" in any case.
func ParseColor(s string) (Color, error) {
	switch c := Color(strings.ToLower(strings.TrimSpace(s))); c {
	case White, Black:
		return c, nil
	}
	return "", fmt.Errorf("invalid color %q", s)
}

// PieceType is the closed set of piece kinds. Every dispatch over it is an
// exhaustive switch; adding a kind means touching each of them.
type PieceType uint8

const (
	Pawn PieceType = iota + 1
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{
	Pawn:   "pawn",
	Knight: "knight",
	Bishop: "bishop",
	Rook:   "rook",
	Queen:  "queen",
	King:   "king",
}

func (t PieceType) String() string {
	if t < Pawn || t > King {
		return fmt.Sprintf("PieceType(%d)", uint8(t))
	}
	return pieceTypeNames[t]
}

// Valid reports whether t is one of the six kinds.
func (t PieceType) Valid() bool { return t >= Pawn && t <= King }

// ParsePieceType maps a lower-case name back to its PieceType.
func ParsePieceType(s string) (PieceType, error) {
	for t := Pawn; t <= King; t++ {
		if pieceTypeNames[t] == strings.ToLower(s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("invalid piece type %q", s)
}

// MarshalText renders the lower-case name so JSON carries "rook", not 4.
func (t PieceType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid piece type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *PieceType) UnmarshalText(b []byte) error {
	v, err := ParsePieceType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Square is a board coordinate. File and Rank are zero based (A=0, rank 1=0).
type Square struct {
	File int8
	Rank int8
}

const files = "ABCDEFGH"

// ParseSquare parses a two character label such as "E4" (or "e4").
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}
	f := strings.IndexByte(files, upper(s[0]))
	r := int(s[1]) - '1'
	if f < 0 || r < 0 || r > 7 {
		return Square{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}
	return Square{File: int8(f), Rank: int8(r)}, nil
}

// MustSquare is ParseSquare for literals; it panics on a bad label.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

func (s Square) String() string {
	if !s.OnBoard() {
		return "??"
	}
	return string([]byte{files[s.File], byte('1' + s.Rank)})
}

// OnBoard reports whether the square lies inside the 8x8 grid.
func (s Square) OnBoard() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

// Offset returns the square df files and dr ranks away; it may be off board.
func (s Square) Offset(df, dr int8) Square {
	return Square{File: s.File + df, Rank: s.Rank + dr}
}

// index orders squares A1, B1, ... H1, A2, ... H8.
func (s Square) index() int { return int(s.Rank)*8 + int(s.File) }

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// sortSquares sorts in place in board index order.
func sortSquares(sqs []Square) {
	sort.Slice(sqs, func(i, j int) bool { return sqs[i].index() < sqs[j].index() })
}

// State is the lifecycle of a game.
type State string

const (
	StateActive   State = "active"
	StateFinished State = "finished"
)

// Piece is a single game object. Its legality sets are written by the Board;
// the piece itself never looks at other pieces.
type Piece struct {
	id       int
	color    Color
	kind     PieceType
	square   Square
	hasMoved bool
	captured bool
	moves    []Square
	targets  []Square
}

func newPiece(id int, c Color, t PieceType, sq Square) *Piece {
	return &Piece{id: id, color: c, kind: t, square: sq}
}

func (p *Piece) ID() int { return p.id }
func (p *Piece) Color() Color { return p.color }
func (p *Piece) Type() PieceType { return p.kind }
func (p *Piece) HasMoved() bool { return p.hasMoved }
func (p *Piece) IsCaptured() bool { return p.captured }

// Square returns the current square; ok is false once the piece is captured.
func (p *Piece) Square() (sq Square, ok bool) {
	if p.captured {
		return Square{}, false
	}
	return p.square, true
}

// Moves returns a copy of the reachable empty squares.
func (p *Piece) Moves() []Square { return append([]Square(nil), p.moves...) }

// Targets returns a copy of the reachable opponent-occupied squares.
func (p *Piece) Targets() []Square { return append([]Square(nil), p.targets...) }

// CanReach reports whether sq is in moves ∪ targets.
func (p *Piece) CanReach(sq Square) bool {
	for _, m := range p.moves {
		if m == sq {
			return true
		}
	}
	for _, t := range p.targets {
		if t == sq {
			return true
		}
	}
	return false
}

func (p *Piece) String() string {
	if p.captured {
		return fmt.Sprintf("%s %s (captured)", p.color, p.kind)
	}
	return fmt.Sprintf("%s %s %s", p.color, p.kind, p.square)
}

func (p *Piece) relocate(sq Square) {
	p.square = sq
	p.hasMoved = true
}

func (p *Piece) capture() {
	p.square = Square{}
	p.captured = true
	p.moves, p.targets = nil, nil
}

func (p *Piece) setLegal(moves, targets []Square) {
	sortSquares(moves)
	sortSquares(targets)
	p.moves, p.targets = moves, targets
}
