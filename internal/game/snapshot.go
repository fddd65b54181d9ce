// internal/game/snapshot.go
//
// Outbound views of a game and the persistence round trip.
//   - Snapshot: what a presentation layer renders (square -> {type, color}).
//   - Record:   everything needed to rebuild a Game exactly (has-moved flags,
//               capture order). Legal sets are derived, so they are not stored.

package game

import (
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
)

// PieceView is the presentation form of a piece.
type PieceView struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

// Snapshot is the full outbound board state.
type Snapshot struct {
	ID        string               `json:"id"`
	Board     map[string]PieceView `json:"board"`
	Turn      Color                `json:"turn"`
	TurnCount int                  `json:"turn_count"`
	GameState State                `json:"game_state"`
	Captured  []PieceView          `json:"captured_pieces"`
	FEN       string               `json:"fen"`

	// Never computed; check detection is out of scope.
	Check     bool `json:"check"`
	Checkmate bool `json:"checkmate"`
}

// Squares returns the occupied square labels in sorted order.
func (s Snapshot) Squares() []string {
	keys := maps.Keys(s.Board)
	slices.Sort(keys)
	return keys
}

// Snapshot renders the current state.
func (g *Game) Snapshot() Snapshot {
	board := make(map[string]PieceView, g.board.Len())
	for sq, id := range g.board.active {
		p := g.board.pieces[id]
		board[sq.String()] = PieceView{Type: p.kind, Color: p.color}
	}
	captured := make([]PieceView, 0, len(g.board.captured))
	for _, p := range g.board.Captured() {
		captured = append(captured, PieceView{Type: p.kind, Color: p.color})
	}
	return Snapshot{
		ID:        g.ID,
		Board:     board,
		Turn:      g.turn,
		TurnCount: g.turnCount,
		GameState: g.state,
		Captured:  captured,
		FEN:       placementFEN(g.board),
	}
}

// PieceRecord is one registry entry. Square is empty for captured pieces.
type PieceRecord struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Square   string    `json:"square,omitempty"`
	HasMoved bool      `json:"has_moved,omitempty"`
}

// Record is the persistence form of a Game. Active pieces are listed in
// square order, captured pieces in capture order.
type Record struct {
	ID        string        `json:"id"`
	Turn      Color         `json:"turn"`
	TurnCount int           `json:"turn_count"`
	State     State         `json:"game_state"`
	Active    []PieceRecord `json:"active"`
	Captured  []PieceRecord `json:"captured"`
}

// Record captures everything Load needs.
func (g *Game) Record() Record {
	rec := Record{
		ID:        g.ID,
		Turn:      g.turn,
		TurnCount: g.turnCount,
		State:     g.state,
		Active:    make([]PieceRecord, 0, g.board.Len()),
		Captured:  make([]PieceRecord, 0, len(g.board.captured)),
	}
	for _, p := range g.board.Active() {
		rec.Active = append(rec.Active, PieceRecord{
			Type: p.kind, Color: p.color, Square: p.square.String(), HasMoved: p.hasMoved,
		})
	}
	for _, p := range g.board.Captured() {
		rec.Captured = append(rec.Captured, PieceRecord{Type: p.kind, Color: p.color, HasMoved: p.hasMoved})
	}
	return rec
}

// Load rebuilds a Game from a Record and recomputes every legal set.
func Load(rec Record) (*Game, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrCorruptRecord)
	}
	if !rec.Turn.Valid() {
		return nil, fmt.Errorf("%w: turn %q", ErrCorruptRecord, rec.Turn)
	}
	if rec.State != StateActive && rec.State != StateFinished {
		return nil, fmt.Errorf("%w: state %q", ErrCorruptRecord, rec.State)
	}
	if rec.TurnCount < 0 {
		return nil, fmt.Errorf("%w: turn count %d", ErrCorruptRecord, rec.TurnCount)
	}
	if len(rec.Active) > 64 {
		return nil, fmt.Errorf("%w: %d active pieces", ErrCorruptRecord, len(rec.Active))
	}

	b := emptyBoard()
	for _, pr := range rec.Active {
		if !pr.Type.Valid() || !pr.Color.Valid() {
			return nil, fmt.Errorf("%w: piece %v", ErrCorruptRecord, pr)
		}
		sq, err := ParseSquare(pr.Square)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
		}
		if b.PieceAt(sq) != nil {
			return nil, fmt.Errorf("%w: two pieces on %s", ErrCorruptRecord, sq)
		}
		b.place(pr.Color, pr.Type, sq).hasMoved = pr.HasMoved
	}
	for _, pr := range rec.Captured {
		if !pr.Type.Valid() || !pr.Color.Valid() || pr.Square != "" {
			return nil, fmt.Errorf("%w: captured piece %v", ErrCorruptRecord, pr)
		}
		p := newPiece(len(b.pieces), pr.Color, pr.Type, Square{})
		p.hasMoved = pr.HasMoved
		p.captured = true
		b.pieces = append(b.pieces, p)
		b.captured = append(b.captured, p.id)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	b.Recompute()

	return &Game{
		ID:        rec.ID,
		board:     b,
		turn:      rec.Turn,
		turnCount: rec.TurnCount,
		state:     rec.State,
	}, nil
}
