package game

import "fmt"

type direction struct{ df, dr int8 }

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]direction{}, rookDirs...), bishopDirs...)
	kingDirs   = queenDirs
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// Recompute rebuilds moves and targets for every active piece. It runs after
// every mutation: one relocation can open or close lines far away from it.
func (b *Board) Recompute() {
	for _, id := range b.active {
		p := b.pieces[id]
		p.setLegal(b.legalSets(p))
	}
}

// legalSets dispatches on piece type.
func (b *Board) legalSets(p *Piece) (moves, targets []Square) {
	switch p.kind {
	case Pawn:
		return b.pawnSets(p)
	case Knight:
		return b.stepSets(p, knightDirs)
	case Bishop:
		return b.raySets(p, bishopDirs)
	case Rook:
		return b.raySets(p, rookDirs)
	case Queen:
		return b.raySets(p, queenDirs)
	case King:
		return b.stepSets(p, kingDirs)
	default:
		panic(fmt.Sprintf("game: no move generator for %v", p.kind))
	}
}

// pawnSets: forward pushes only onto empty squares, the double push only
// from an unmoved pawn with a clear path, diagonals only as captures.
func (b *Board) pawnSets(p *Piece) (moves, targets []Square) {
	dr := int8(1)
	if p.color == Black {
		dr = -1
	}
	one := p.square.Offset(0, dr)
	if one.OnBoard() && b.PieceAt(one) == nil {
		moves = append(moves, one)
		two := p.square.Offset(0, 2*dr)
		if !p.hasMoved && two.OnBoard() && b.PieceAt(two) == nil {
			moves = append(moves, two)
		}
	}
	for _, df := range [2]int8{-1, 1} {
		diag := p.square.Offset(df, dr)
		if !diag.OnBoard() {
			continue
		}
		if occ := b.PieceAt(diag); occ != nil && occ.color != p.color {
			targets = append(targets, diag)
		}
	}
	return moves, targets
}

// stepSets covers knight and king: single offsets, own pieces dropped.
func (b *Board) stepSets(p *Piece, dirs []direction) (moves, targets []Square) {
	for _, d := range dirs {
		sq := p.square.Offset(d.df, d.dr)
		if !sq.OnBoard() {
			continue
		}
		switch occ := b.PieceAt(sq); {
		case occ == nil:
			moves = append(moves, sq)
		case occ.color != p.color:
			targets = append(targets, sq)
		}
	}
	return moves, targets
}

// raySets walks each direction until the edge or the first occupied square.
func (b *Board) raySets(p *Piece, dirs []direction) (moves, targets []Square) {
	for _, d := range dirs {
		for sq := p.square.Offset(d.df, d.dr); sq.OnBoard(); sq = sq.Offset(d.df, d.dr) {
			occ := b.PieceAt(sq)
			if occ == nil {
				moves = append(moves, sq)
				continue
			}
			if occ.color != p.color {
				targets = append(targets, sq)
			}
			break
		}
	}
	return moves, targets
}
