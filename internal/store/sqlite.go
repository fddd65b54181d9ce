// internal/store/sqlite.go
//
// SQLite implementation of Store.
// The engine record is stored as JSON in games.state; game_state and
// turn_count are denormalised next to it so listings need not decode it.
// Timestamps are RFC3339 text in UTC.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/robalobadob/chess/apps/go-server/internal/game"
)

type sqliteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens dsn, applies migrations and returns the Store.
func NewSQLiteStore(dsn string) (Store, error) {
	db, err := OpenDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }

const gameColumns = `id, owner_id, COALESCE(white_player_id,''), COALESCE(black_player_id,''),
	state, created_at, COALESCE(last_updated_at,'')`

func (s *sqliteStore) Create(ctx context.Context, row *GameRow) error {
	state, err := json.Marshal(row.Record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now()
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO games (id, owner_id, white_player_id, black_player_id, state,
                           game_state, turn_count, created_at)
        VALUES (?, ?, NULLIF(?,''), NULLIF(?,''), ?, ?, ?, ?)`,
		row.ID, row.OwnerID, row.WhiteID, row.BlackID, string(state),
		string(row.Record.State), row.Record.TurnCount, formatTime(row.CreatedAt),
	)
	return mapErr(err)
}

func (s *sqliteStore) Get(ctx context.Context, id string) (*GameRow, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id=?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

func (s *sqliteStore) Save(ctx context.Context, id string, rec game.Record) error {
	state, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
        UPDATE games SET state=?, game_state=?, turn_count=?, last_updated_at=?
        WHERE id=?`,
		string(state), string(rec.State), rec.TurnCount, formatTime(s.now()), id,
	)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *sqliteStore) ListByUser(ctx context.Context, userID string) ([]*GameRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+gameColumns+`
        FROM games
        WHERE owner_id=? OR white_player_id=? OR black_player_id=?
        ORDER BY created_at DESC, id ASC`, userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*GameRow{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *sqliteStore) AssignPlayers(ctx context.Context, id, whiteID, blackID string) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE games SET white_player_id=?, black_player_id=?, last_updated_at=?
        WHERE id=? AND white_player_id IS NULL AND black_player_id IS NULL`,
		whiteID, blackID, formatTime(s.now()), id,
	)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var one int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id=?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrConflict
}

func (s *sqliteStore) CreateUser(ctx context.Context, u *User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, name, password_hash, created_at) VALUES (?,?,?,?,?,?)`,
		u.ID, u.Username, u.Email, u.Name, u.PasswordHash, formatTime(u.CreatedAt))
	return mapErr(err)
}

func (s *sqliteStore) UserByID(ctx context.Context, id string) (*User, error) {
	return s.findUser(ctx, `WHERE id=?`, id)
}

func (s *sqliteStore) UserByUsername(ctx context.Context, username string) (*User, error) {
	return s.findUser(ctx, `WHERE username=?`, username)
}

func (s *sqliteStore) findUser(ctx context.Context, where string, arg any) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, name, password_hash, created_at FROM users `+where, arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *sqliteStore) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, email, name, password_hash, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ------------------------------- scanning ----------------------------------

type scanner interface{ Scan(dest ...any) error }

func scanGame(row scanner) (*GameRow, error) {
	var g GameRow
	var state, created, updated string
	if err := row.Scan(&g.ID, &g.OwnerID, &g.WhiteID, &g.BlackID, &state, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(state), &g.Record); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", g.ID, err)
	}
	g.CreatedAt = parseTime(created)
	g.UpdatedAt = parseTime(updated)
	return &g, nil
}

func scanUser(row scanner) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.PasswordHash, &created); err != nil {
		return nil, err
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}

// timeLayout has fixed-width fractions so text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

// parseTime parses stored timestamps; empty or invalid text is the zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// mapErr translates constraint violations into store errors.
func mapErr(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
