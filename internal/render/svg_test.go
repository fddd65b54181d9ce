package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/robalobadob/chess/apps/go-server/internal/game"
)

func TestBoardStartingPosition(t *testing.T) {
	var buf bytes.Buffer
	if err := Board(&buf, game.New().Snapshot(), Options{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") || !strings.Contains(out, "</svg>") {
		t.Fatalf("not an svg document: %.80s", out)
	}
	if n := strings.Count(out, "<rect"); n != 64 {
		t.Fatalf("expected 64 squares, got %d", n)
	}
	if n := strings.Count(out, "♙"); n != 8 {
		t.Fatalf("expected 8 white pawns, got %d", n)
	}
	if n := strings.Count(out, "♚"); n != 1 {
		t.Fatalf("expected one black king, got %d", n)
	}
}

func TestBoardHighlight(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{SquareSize: 10, Highlight: []string{"e3", "E4"}}
	if err := Board(&buf, game.New().Snapshot(), opts); err != nil {
		t.Fatalf("render: %v", err)
	}
	if n := strings.Count(buf.String(), "<rect"); n != 66 {
		t.Fatalf("expected 64 squares plus 2 markers, got %d", n)
	}
	if err := Board(&buf, game.New().Snapshot(), Options{Highlight: []string{"Z9"}}); err == nil {
		t.Fatalf("expected error for bad highlight label")
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		sq     string
		bottom game.Color
		x, y   int
	}{
		{"A1", game.White, 0, 70},
		{"H8", game.White, 70, 0},
		{"A1", game.Black, 70, 0},
		{"H8", game.Black, 0, 70},
		{"E4", game.White, 40, 40},
	}
	for _, tt := range tests {
		x, y := origin(game.MustSquare(tt.sq), 10, tt.bottom)
		if x != tt.x || y != tt.y {
			t.Fatalf("origin(%s, %s) = %d,%d want %d,%d", tt.sq, tt.bottom, x, y, tt.x, tt.y)
		}
	}
}
