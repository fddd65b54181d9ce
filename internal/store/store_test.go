package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/robalobadob/chess/apps/go-server/internal/game"
)

// backends runs fn against every Store implementation.
func backends(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "chess.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})
}

func mustUser(t *testing.T, s Store, name string) *User {
	t.Helper()
	u := &User{ID: uuid.NewString(), Username: name, PasswordHash: "x"}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func mustGame(t *testing.T, s Store, owner string) *game.Game {
	t.Helper()
	g := game.New()
	if err := s.Create(context.Background(), &GameRow{ID: g.ID, OwnerID: owner, Record: g.Record()}); err != nil {
		t.Fatalf("create game: %v", err)
	}
	return g
}

func TestUsers(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		alice := mustUser(t, s, "alice")
		mustUser(t, s, "Bob")

		if err := s.CreateUser(ctx, &User{ID: uuid.NewString(), Username: "ALICE", PasswordHash: "x"}); !errors.Is(err, ErrConflict) {
			t.Fatalf("duplicate username: expected conflict, got %v", err)
		}
		got, err := s.UserByUsername(ctx, "Alice")
		if err != nil || got.ID != alice.ID {
			t.Fatalf("lookup by username: %v %v", got, err)
		}
		if got.CreatedAt.IsZero() {
			t.Fatalf("created_at not stamped")
		}
		if _, err := s.UserByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		all, err := s.ListUsers(ctx)
		if err != nil || len(all) != 2 || all[0].Username != "alice" || all[1].Username != "Bob" {
			t.Fatalf("list users: %v %v", all, err)
		}
	})
}

func TestGameLifecycle(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		owner := mustUser(t, s, "owner")
		g := mustGame(t, s, owner.ID)

		row, err := s.Get(ctx, g.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if row.OwnerID != owner.ID || row.HasPlayers() || row.CreatedAt.IsZero() || !row.UpdatedAt.IsZero() {
			t.Fatalf("unexpected fresh row: %+v", row)
		}

		if _, err := g.RequestMove("E2", "E4"); err != nil {
			t.Fatalf("move: %v", err)
		}
		if err := s.Save(ctx, g.ID, g.Record()); err != nil {
			t.Fatalf("save: %v", err)
		}
		row, _ = s.Get(ctx, g.ID)
		if row.UpdatedAt.IsZero() {
			t.Fatalf("last_updated_at not stamped on save")
		}
		loaded, err := row.Game()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if loaded.Turn() != game.Black || loaded.TurnCount() != 1 {
			t.Fatalf("state lost: turn=%s count=%d", loaded.Turn(), loaded.TurnCount())
		}

		if err := s.Save(ctx, "missing", g.Record()); !errors.Is(err, ErrNotFound) {
			t.Fatalf("save missing: %v", err)
		}
		if err := s.Create(ctx, &GameRow{ID: g.ID, OwnerID: owner.ID, Record: g.Record()}); !errors.Is(err, ErrConflict) {
			t.Fatalf("duplicate create: %v", err)
		}
		if err := s.Delete(ctx, g.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := s.Get(ctx, g.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("get after delete: %v", err)
		}
		if err := s.Delete(ctx, g.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("second delete: %v", err)
		}
	})
}

func TestGetReturnsPrivateCopy(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		owner := mustUser(t, s, "owner")
		g := mustGame(t, s, owner.ID)

		row, _ := s.Get(ctx, g.ID)
		row.Record.Active = nil
		row.WhiteID = "someone"

		again, _ := s.Get(ctx, g.ID)
		if len(again.Record.Active) != 32 || again.WhiteID != "" {
			t.Fatalf("stored row was mutated through a returned copy")
		}
	})
}

func TestAssignPlayers(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		owner := mustUser(t, s, "owner")
		rival := mustUser(t, s, "rival")
		g := mustGame(t, s, owner.ID)

		if err := s.AssignPlayers(ctx, g.ID, rival.ID, owner.ID); err != nil {
			t.Fatalf("assign: %v", err)
		}
		row, _ := s.Get(ctx, g.ID)
		if c, ok := row.ColorOf(rival.ID); !ok || c != game.White {
			t.Fatalf("rival should play white, got %s %v", c, ok)
		}
		if c, ok := row.ColorOf(owner.ID); !ok || c != game.Black {
			t.Fatalf("owner should play black, got %s %v", c, ok)
		}
		if err := s.AssignPlayers(ctx, g.ID, owner.ID, rival.ID); !errors.Is(err, ErrConflict) {
			t.Fatalf("reassign: expected conflict, got %v", err)
		}
		if err := s.AssignPlayers(ctx, "missing", owner.ID, rival.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("assign missing game: %v", err)
		}
	})
}

func TestListByUser(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		a := mustUser(t, s, "a")
		b := mustUser(t, s, "b")
		c := mustUser(t, s, "c")

		owned := mustGame(t, s, a.ID)
		played := mustGame(t, s, b.ID)
		if err := s.AssignPlayers(ctx, played.ID, a.ID, b.ID); err != nil {
			t.Fatalf("assign: %v", err)
		}
		mustGame(t, s, c.ID)

		rows, err := s.ListByUser(ctx, a.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		ids := map[string]bool{}
		for _, r := range rows {
			ids[r.ID] = true
		}
		if len(rows) != 2 || !ids[owned.ID] || !ids[played.ID] {
			t.Fatalf("unexpected games for a: %v", ids)
		}
		if rows, _ := s.ListByUser(ctx, "nobody"); len(rows) != 0 {
			t.Fatalf("expected no games, got %d", len(rows))
		}
	})
}

func TestCreateRequiresOwner(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		g := game.New()
		err := s.Create(context.Background(), &GameRow{ID: g.ID, OwnerID: "ghost", Record: g.Record()})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found for unknown owner, got %v", err)
		}
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	for i := 0; i < 2; i++ {
		if err := Migrate(db); err != nil {
			t.Fatalf("migrate pass %d: %v", i, err)
		}
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil || n != 2 {
		t.Fatalf("expected 2 recorded migrations, got %d (%v)", n, err)
	}
}

func TestLocksSerialiseSameKey(t *testing.T) {
	l := NewLocks()
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("g1")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("lost updates: counter=%d", counter)
	}
	if l.Len() != 0 {
		t.Fatalf("lock table not drained: %d", l.Len())
	}
}

func TestLocksIndependentKeys(t *testing.T) {
	l := NewLocks()
	unlockA := l.Lock("a")
	done := make(chan struct{})
	go func() {
		unlock := l.Lock("b")
		unlock()
		close(done)
	}()
	<-done
	unlockA()
}
