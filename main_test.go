package main

import (
	"path/filepath"
	"testing"
)

func TestOpenStore(t *testing.T) {
	st, err := openStore("memory", "")
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	_ = st.Close()

	st, err = openStore("SQLite", filepath.Join(t.TempDir(), "nested", "chess.db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	_ = st.Close()

	if _, err := openStore("postgres", ""); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("X_DAYS", "7")
	if got := envInt("X_DAYS", 14); got != 7 {
		t.Fatalf("envInt = %d, want 7", got)
	}
	t.Setenv("X_DAYS", "nope")
	if got := envInt("X_DAYS", 14); got != 14 {
		t.Fatalf("envInt fallback = %d, want 14", got)
	}
}
