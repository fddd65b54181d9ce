package game

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/notnil/chess"
)

var (
	toNotnilType = map[PieceType]chess.PieceType{
		Pawn: chess.Pawn, Knight: chess.Knight, Bishop: chess.Bishop,
		Rook: chess.Rook, Queen: chess.Queen, King: chess.King,
	}
	fromNotnilType = map[chess.PieceType]PieceType{
		chess.Pawn: Pawn, chess.Knight: Knight, chess.Bishop: Bishop,
		chess.Rook: Rook, chess.Queen: Queen, chess.King: King,
	}
)

func toNotnilColor(c Color) chess.Color {
	if c == White {
		return chess.White
	}
	return chess.Black
}

// placementFEN renders the piece-placement field of FEN for b.
func placementFEN(b *Board) string {
	m := make(map[chess.Square]chess.Piece, b.Len())
	for sq, id := range b.active {
		p := b.pieces[id]
		nsq := chess.NewSquare(chess.File(sq.File), chess.Rank(sq.Rank))
		m[nsq] = chess.NewPiece(toNotnilType[p.kind], toNotnilColor(p.color))
	}
	return chess.NewBoard(m).String()
}

// FromFEN starts a game from an arbitrary position. Pieces away from their
// starting squares count as moved. Castling and en-passant fields are
// accepted but ignored. Turn count is derived from the full-move number.
func FromFEN(fen string) (*Game, error) {
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(strings.TrimSpace(fen))); err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}

	b := emptyBoard()
	for nsq, np := range pos.Board().SquareMap() {
		t, ok := fromNotnilType[np.Type()]
		if !ok {
			continue
		}
		c := White
		if np.Color() == chess.Black {
			c = Black
		}
		sq := Square{File: int8(nsq.File()), Rank: int8(nsq.Rank())}
		b.place(c, t, sq).hasMoved = !onHomeSquare(c, t, sq)
	}
	// Registry order follows map iteration; renumber in square order so IDs
	// are stable across loads of the same FEN.
	b = renumber(b)
	b.Recompute()

	turn := White
	if pos.Turn() == chess.Black {
		turn = Black
	}
	plies, err := pliesFromFEN(fen, turn)
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:        uuid.New().String(),
		board:     b,
		turn:      turn,
		turnCount: plies,
		state:     StateActive,
	}, nil
}

func onHomeSquare(c Color, t PieceType, sq Square) bool {
	home, pawnRank := int8(0), int8(1)
	if c == Black {
		home, pawnRank = 7, 6
	}
	if t == Pawn {
		return sq.Rank == pawnRank
	}
	return sq.Rank == home && backRank[sq.File] == t
}

func renumber(b *Board) *Board {
	out := emptyBoard()
	for _, p := range b.Active() {
		out.place(p.color, p.kind, p.square).hasMoved = p.hasMoved
	}
	return out
}

// maxFullMoves bounds the full-move field so the derived counter fits an int32.
const maxFullMoves = math.MaxInt32 / 2

// pliesFromFEN converts the full-move field into a half-move counter.
func pliesFromFEN(fen string, turn Color) (int, error) {
	fields := strings.Fields(fen)
	if len(fields) < 6 {
		return 0, nil
	}
	n, err := strconv.Atoi(fields[5])
	if err != nil || n < 1 {
		return 0, nil
	}
	if n > maxFullMoves {
		return 0, fmt.Errorf("parse fen: full-move number %d out of range", n)
	}
	plies := (n - 1) * 2
	if turn == Black {
		plies++
	}
	return plies, nil
}
