// internal/game/engine.go
//
// Turn orchestration for a single chess game.
// Responsibilities:
//   - Create new games on the standard starting position.
//   - Validate a requested move (coordinates, lifecycle, ownership, legality).
//   - Delegate execution to the Board, then advance turn state.
//
// Notes:
//   - Game is not safe for concurrent use. The store layer serialises
//     load -> RequestMove -> save per game ID.
//   - Check, mate, castling, en passant and promotion are not modelled.
package game

import (
	"fmt"

	"github.com/google/uuid"
)

// Game owns a Board exclusively and tracks whose turn it is.
type Game struct {
	ID        string
	board     *Board
	turn      Color
	turnCount int
	state     State
}

// New constructs a game on the starting position, white to move.
func New() *Game {
	return &Game{
		ID:    uuid.New().String(),
		board: NewBoard(),
		turn:  White,
		state: StateActive,
	}
}

func (g *Game) Board() *Board { return g.board }
func (g *Game) Turn() Color { return g.turn }
func (g *Game) TurnCount() int { return g.turnCount }
func (g *Game) State() State { return g.state }
func (g *Game) Captured() []*Piece { return g.board.Captured() }

// RequestMove validates and applies start -> end for the side to move.
//
// Validation order:
//   - both labels well formed and distinct (ErrMalformedCoordinate)
//   - game active (ErrInactiveGame)
//   - a piece on start (ErrEmptyOrigin) owned by the side to move (ErrWrongTurn)
//   - end not held by the mover's own color (ErrFriendlyCapture)
//   - end in the mover's moves ∪ targets (ErrIllegalDestination)
//
// A rejected request leaves the game untouched.
func (g *Game) RequestMove(start, end string) (Snapshot, error) {
	from, err := ParseSquare(start)
	if err != nil {
		return Snapshot{}, err
	}
	to, err := ParseSquare(end)
	if err != nil {
		return Snapshot{}, err
	}
	if from == to {
		return Snapshot{}, fmt.Errorf("%w: start equals end (%s)", ErrMalformedCoordinate, from)
	}
	if g.state != StateActive {
		return Snapshot{}, fmt.Errorf("%w: state is %s", ErrInactiveGame, g.state)
	}

	piece := g.board.PieceAt(from)
	if piece == nil {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrEmptyOrigin, from)
	}
	if piece.color != g.turn {
		return Snapshot{}, fmt.Errorf("%w: %s to move, %s is %s", ErrWrongTurn, g.turn, from, piece.color)
	}
	target := g.board.PieceAt(to)
	if target != nil && target.color == piece.color {
		return Snapshot{}, fmt.Errorf("%w: %s on %s", ErrFriendlyCapture, target.kind, to)
	}
	if !piece.CanReach(to) {
		return Snapshot{}, fmt.Errorf("%w: %s cannot move to %s", ErrIllegalDestination, piece, to)
	}

	if err := g.board.execute(piece, to, target); err != nil {
		return Snapshot{}, err
	}
	g.turnCount++
	g.turn = g.turn.Other()
	return g.Snapshot(), nil
}

// Finish marks the game finished. Move logic never calls this; it is the
// hook for resignation or administrative closure.
func (g *Game) Finish() { g.state = StateFinished }

// LegalMoves returns the moves and targets of the piece standing on label.
func (g *Game) LegalMoves(label string) (moves, targets []Square, err error) {
	sq, err := ParseSquare(label)
	if err != nil {
		return nil, nil, err
	}
	p := g.board.PieceAt(sq)
	if p == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrEmptyOrigin, sq)
	}
	return p.Moves(), p.Targets(), nil
}
