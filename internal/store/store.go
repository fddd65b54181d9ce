// internal/store/store.go
//
// Persistence contract for games and users.
// Responsibilities:
//   - GameRow: one stored game (engine record + ownership + player seats).
//   - User: one account row.
//   - Store: the interface every backend (memory, SQLite) implements.
//
// Games are stored as game.Record values, never as live *game.Game pointers,
// so every request gets its own engine instance rebuilt by game.Load.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/chess/apps/go-server/internal/game"
)

var (
	// ErrNotFound is returned when a game or user id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on a duplicate username or game id, or when
	// players are assigned to a game that already has them.
	ErrConflict = errors.New("conflict")
)

// GameRow is a stored game.
type GameRow struct {
	ID        string
	OwnerID   string
	WhiteID   string // empty until players are assigned
	BlackID   string
	CreatedAt time.Time
	UpdatedAt time.Time // zero until the first save after creation
	Record    game.Record
}

// Game rebuilds the engine instance for this row.
func (r *GameRow) Game() (*game.Game, error) { return game.Load(r.Record) }

// HasPlayers reports whether both seats are taken.
func (r *GameRow) HasPlayers() bool { return r.WhiteID != "" && r.BlackID != "" }

// ColorOf returns the color the user plays in this game.
func (r *GameRow) ColorOf(userID string) (game.Color, bool) {
	switch {
	case userID == "":
		return "", false
	case r.WhiteID == userID:
		return game.White, true
	case r.BlackID == userID:
		return game.Black, true
	}
	return "", false
}

// Involves reports whether the user owns or plays the game.
func (r *GameRow) Involves(userID string) bool {
	_, plays := r.ColorOf(userID)
	return r.OwnerID == userID || plays
}

func (r *GameRow) clone() *GameRow {
	c := *r
	c.Record.Active = append([]game.PieceRecord(nil), r.Record.Active...)
	c.Record.Captured = append([]game.PieceRecord(nil), r.Record.Captured...)
	return &c
}

// User is an account. PasswordHash is a bcrypt hash.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store is implemented by the memory and SQLite backends.
type Store interface {
	// Create inserts a new game. ErrConflict if the id exists.
	Create(ctx context.Context, row *GameRow) error
	// Get returns a copy of the stored game or ErrNotFound.
	Get(ctx context.Context, id string) (*GameRow, error)
	// Save replaces the engine record of an existing game and stamps UpdatedAt.
	Save(ctx context.Context, id string, rec game.Record) error
	// Delete removes a game. ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
	// ListByUser returns games the user owns or plays, newest first.
	ListByUser(ctx context.Context, userID string) ([]*GameRow, error)
	// AssignPlayers seats both players once. ErrConflict if already seated.
	AssignPlayers(ctx context.Context, id, whiteID, blackID string) error

	// CreateUser inserts an account. ErrConflict if the username is taken
	// (case-insensitive).
	CreateUser(ctx context.Context, u *User) error
	UserByID(ctx context.Context, id string) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	// ListUsers returns every account ordered by username.
	ListUsers(ctx context.Context) ([]*User, error)

	Close() error
}
