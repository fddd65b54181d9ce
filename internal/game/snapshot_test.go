package game

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	g := New()
	mustMove(t, g, [2]string{"E2", "E4"}, [2]string{"D7", "D5"}, [2]string{"E4", "D5"}, [2]string{"D8", "D5"})

	raw, err := json.Marshal(g.Record())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	loaded, err := Load(rec)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.ID != g.ID || loaded.Turn() != g.Turn() || loaded.TurnCount() != 4 {
		t.Fatalf("metadata lost: id=%s turn=%s count=%d", loaded.ID, loaded.Turn(), loaded.TurnCount())
	}
	if loaded.Board().Len() != 30 || len(loaded.Captured()) != 2 {
		t.Fatalf("counts lost: active=%d captured=%d", loaded.Board().Len(), len(loaded.Captured()))
	}
	if c := loaded.Captured(); c[0].Color() != Black || c[1].Color() != White {
		t.Fatalf("capture order lost")
	}
	for _, p := range g.Board().Active() {
		sq, _ := p.Square()
		q := loaded.Board().PieceAt(sq)
		if q == nil || q.Type() != p.Type() || q.Color() != p.Color() || q.HasMoved() != p.HasMoved() {
			t.Fatalf("piece on %s not restored", sq)
		}
		if !slices.Equal(labels(p.Moves()), labels(q.Moves())) || !slices.Equal(labels(p.Targets()), labels(q.Targets())) {
			t.Fatalf("legal sets differ on %s after load", sq)
		}
	}

	// The restored game keeps playing with fresh legal sets.
	mustMove(t, loaded, [2]string{"G1", "F3"})
	assertSet(t, "black queen", pieceAt(t, loaded, "D5").Targets(), "D2", "A2", "F3")
}

func TestLoadRejectsCorruptRecords(t *testing.T) {
	base := func() Record { return New().Record() }
	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"missing id", func(r *Record) { r.ID = "" }},
		{"bad turn", func(r *Record) { r.Turn = "green" }},
		{"bad state", func(r *Record) { r.State = "paused" }},
		{"negative count", func(r *Record) { r.TurnCount = -1 }},
		{"duplicate square", func(r *Record) { r.Active[1].Square = r.Active[0].Square }},
		{"bad square", func(r *Record) { r.Active[0].Square = "J9" }},
		{"bad type", func(r *Record) { r.Active[0].Type = 0 }},
		{"captured with square", func(r *Record) {
			r.Captured = append(r.Captured, PieceRecord{Type: Pawn, Color: White, Square: "A3"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := base()
			tt.mutate(&rec)
			if _, err := Load(rec); !errors.Is(err, ErrCorruptRecord) {
				t.Fatalf("expected corrupt record, got %v", err)
			}
		})
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	raw, err := json.Marshal(New().Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"id", "board", "turn", "turn_count", "game_state", "captured_pieces", "check", "checkmate"} {
		if _, ok := out[k]; !ok {
			t.Fatalf("snapshot missing %q", k)
		}
	}
	a2 := out["board"].(map[string]any)["A2"].(map[string]any)
	if a2["type"] != "pawn" || a2["color"] != "white" {
		t.Fatalf("unexpected A2 rendering: %v", a2)
	}
	if out["turn"] != "white" || out["game_state"] != "active" {
		t.Fatalf("unexpected turn/state: %v %v", out["turn"], out["game_state"])
	}
}

func TestSnapshotSquaresSorted(t *testing.T) {
	sqs := New().Snapshot().Squares()
	if len(sqs) != 32 || sqs[0] != "A1" || sqs[len(sqs)-1] != "H8" {
		t.Fatalf("unexpected square order: %v", sqs)
	}
}
