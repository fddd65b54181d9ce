// internal/game/board.go
//
// Board owns piece placement and capture bookkeeping.
//
// Pieces live in a registry addressed by a stable ID. Two membership
// structures reference those IDs:
//   - active:   square -> piece ID (at most one piece per square)
//   - captured: piece IDs in capture order
// A capture moves the ID from one structure to the other; the piece record
// itself is never duplicated.

package game

import "fmt"

// Board is the piece registry plus placement. It does not know whose turn it
// is; that belongs to Game.
type Board struct {
	pieces   []*Piece
	active   map[Square]int
	captured []int
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the conventional starting position with legal sets computed.
func NewBoard() *Board {
	b := emptyBoard()
	for f := int8(0); f < 8; f++ {
		b.place(White, backRank[f], Square{File: f, Rank: 0})
		b.place(White, Pawn, Square{File: f, Rank: 1})
		b.place(Black, Pawn, Square{File: f, Rank: 6})
		b.place(Black, backRank[f], Square{File: f, Rank: 7})
	}
	b.Recompute()
	return b
}

func emptyBoard() *Board {
	return &Board{active: make(map[Square]int, 32)}
}

// place registers a new piece on an empty square and returns it.
func (b *Board) place(c Color, t PieceType, sq Square) *Piece {
	p := newPiece(len(b.pieces), c, t, sq)
	b.pieces = append(b.pieces, p)
	b.active[sq] = p.id
	return p
}

// PieceAt returns the active piece on sq, or nil.
func (b *Board) PieceAt(sq Square) *Piece {
	id, ok := b.active[sq]
	if !ok {
		return nil
	}
	return b.pieces[id]
}

// Piece returns the registry entry for id, active or captured.
func (b *Board) Piece(id int) *Piece {
	if id < 0 || id >= len(b.pieces) {
		return nil
	}
	return b.pieces[id]
}

// Len is the number of active pieces.
func (b *Board) Len() int { return len(b.active) }

// Active returns the active pieces ordered by square (A1, B1, ... H8).
func (b *Board) Active() []*Piece {
	out := make([]*Piece, 0, len(b.active))
	for r := int8(0); r < 8; r++ {
		for f := int8(0); f < 8; f++ {
			if p := b.PieceAt(Square{File: f, Rank: r}); p != nil {
				out = append(out, p)
			}
		}
	}
	return out
}

// Captured returns captured pieces in the order they were taken.
func (b *Board) Captured() []*Piece {
	out := make([]*Piece, len(b.captured))
	for i, id := range b.captured {
		out[i] = b.pieces[id]
	}
	return out
}

// execute relocates p to dest, capturing target if given. The caller has
// already checked turn ownership; execute re-checks legality and refuses to
// capture a same-color piece. Nothing is mutated unless every check passes.
func (b *Board) execute(p *Piece, dest Square, target *Piece) error {
	from, ok := p.Square()
	if !ok || b.PieceAt(from) != p {
		return fmt.Errorf("%w: %s is not on the board", ErrIllegalDestination, p)
	}
	if !p.CanReach(dest) {
		return fmt.Errorf("%w: %s cannot reach %s", ErrIllegalDestination, p, dest)
	}
	if target != nil && target.color == p.color {
		return fmt.Errorf("%w: %s at %s", ErrFriendlyCapture, target.kind, dest)
	}
	if occupant := b.PieceAt(dest); occupant != target {
		return fmt.Errorf("%w: target mismatch at %s", ErrIllegalDestination, dest)
	}

	if target != nil {
		delete(b.active, dest)
		b.captured = append(b.captured, target.id)
		target.capture()
	}
	delete(b.active, from)
	b.active[dest] = p.id
	p.relocate(dest)
	b.Recompute()
	return nil
}

// validate checks the registry against the placement invariants. Used after
// rebuilding a board from a persisted record.
func (b *Board) validate() error {
	seen := make(map[int]bool, len(b.pieces))
	for sq, id := range b.active {
		p := b.Piece(id)
		if p == nil || p.captured || p.square != sq || !sq.OnBoard() {
			return fmt.Errorf("%w: bad active entry at %s", ErrCorruptRecord, sq)
		}
		seen[id] = true
	}
	for _, id := range b.captured {
		p := b.Piece(id)
		if p == nil || !p.captured || seen[id] {
			return fmt.Errorf("%w: bad captured entry %d", ErrCorruptRecord, id)
		}
		seen[id] = true
	}
	if len(seen) != len(b.pieces) {
		return fmt.Errorf("%w: %d pieces unaccounted for", ErrCorruptRecord, len(b.pieces)-len(seen))
	}
	return nil
}
