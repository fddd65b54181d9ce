package game

import "testing"

func TestFromFEN(t *testing.T) {
	// After 1.e4 e5: black pawn moved, white to move on move 2.
	g, err := FromFEN("rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2")
	if err != nil {
		t.Fatalf("from fen: %v", err)
	}
	if g.Turn() != White || g.TurnCount() != 2 {
		t.Fatalf("turn=%s count=%d, want white/2", g.Turn(), g.TurnCount())
	}
	if g.Board().Len() != 32 {
		t.Fatalf("expected 32 pieces, got %d", g.Board().Len())
	}
	if !pieceAt(t, g, "E4").HasMoved() || !pieceAt(t, g, "E5").HasMoved() {
		t.Fatalf("advanced pawns must be marked moved")
	}
	if pieceAt(t, g, "D2").HasMoved() || pieceAt(t, g, "G1").HasMoved() {
		t.Fatalf("home pieces must not be marked moved")
	}
	assertSet(t, "D2 moves", pieceAt(t, g, "D2").Moves(), "D3", "D4")
	assertSet(t, "E4 moves", pieceAt(t, g, "E4").Moves())

	if got := g.Snapshot().FEN; got != "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR" {
		t.Fatalf("placement round trip: %q", got)
	}
}

func TestFromFENBlackToMove(t *testing.T) {
	g, err := FromFEN("4k3/8/8/8/8/8/8/R3K3 b - - 0 10")
	if err != nil {
		t.Fatalf("from fen: %v", err)
	}
	if g.Turn() != Black || g.TurnCount() != 19 {
		t.Fatalf("turn=%s count=%d, want black/19", g.Turn(), g.TurnCount())
	}
	if pieceAt(t, g, "A1").HasMoved() {
		t.Fatalf("rook on A1 is on its home square")
	}
	if _, err := g.RequestMove("A1", "A8"); err == nil {
		t.Fatalf("white moved on black's turn")
	}
}

func TestFromFENInvalid(t *testing.T) {
	if _, err := FromFEN("not a fen"); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}

func TestFromFENFullMoveRange(t *testing.T) {
	cases := []struct {
		fen     string
		wantErr bool
		count   int
	}{
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 9223372036854775807", true, 0},
		{"4k3/8/8/8/8/8/8/R3K3 b - - 0 1073741824", true, 0},
		{"4k3/8/8/8/8/8/8/R3K3 b - - 0 1073741823", false, 2147483645},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 1", false, 0},
	}
	for _, tc := range cases {
		g, err := FromFEN(tc.fen)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got turn count %d", tc.fen, g.TurnCount())
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tc.fen, err)
			continue
		}
		if g.TurnCount() != tc.count {
			t.Errorf("%q: turn count %d, want %d", tc.fen, g.TurnCount(), tc.count)
		}
		if _, err := Load(g.Record()); err != nil {
			t.Errorf("%q: reload: %v", tc.fen, err)
		}
	}
}
