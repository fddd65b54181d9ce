package game

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"A1", "A1", true},
		{"h8", "H8", true},
		{"e4", "E4", true},
		{"I1", "", false},
		{"A0", "", false},
		{"A9", "", false},
		{"4E", "", false},
		{"E", "", false},
		{"E44", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		sq, err := ParseSquare(tt.in)
		if tt.ok {
			if err != nil || sq.String() != tt.want {
				t.Fatalf("ParseSquare(%q) = %v, %v; want %s", tt.in, sq, err, tt.want)
			}
			continue
		}
		if !errors.Is(err, ErrMalformedCoordinate) {
			t.Fatalf("ParseSquare(%q): expected malformed coordinate, got %v", tt.in, err)
		}
	}
}

func TestPieceTypeText(t *testing.T) {
	raw, err := json.Marshal(map[string]PieceType{"x": Knight})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"x":"knight"}` {
		t.Fatalf("unexpected json %s", raw)
	}
	var back map[string]PieceType
	if err := json.Unmarshal(raw, &back); err != nil || back["x"] != Knight {
		t.Fatalf("unmarshal: %v %v", back, err)
	}
	if _, err := ParsePieceType("wizard"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestColor(t *testing.T) {
	if White.Other() != Black || Black.Other() != White {
		t.Fatalf("Other is not an involution")
	}
	if c, err := ParseColor(" Black "); err != nil || c != Black {
		t.Fatalf("ParseColor: %v %v", c, err)
	}
	if _, err := ParseColor("red"); err == nil {
		t.Fatalf("expected error for red")
	}
}
