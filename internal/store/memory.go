// internal/store/memory.go
//
// In-memory implementation of Store.
// Used for tests and for STORE=memory when durability is not required.
//
// Characteristics:
//   - Games and users keyed by ID in maps.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Rows are copied on the way in and out; callers never share state.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/maps"

	"github.com/robalobadob/chess/apps/go-server/internal/game"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex        // guards games and users
	games map[string]*GameRow // keyed by GameRow.ID
	users map[string]*User    // keyed by User.ID
	now   func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		games: make(map[string]*GameRow),
		users: make(map[string]*User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *memory) Create(ctx context.Context, row *GameRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[row.ID]; ok {
		return ErrConflict
	}
	if _, ok := m.users[row.OwnerID]; !ok {
		return ErrNotFound
	}
	c := row.clone()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.now()
	}
	m.games[c.ID] = c
	row.CreatedAt = c.CreatedAt
	return nil
}

// Get looks up a game by ID and returns a private copy.
func (m *memory) Get(ctx context.Context, id string) (*GameRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g.clone(), nil
	}
	return nil, ErrNotFound
}

func (m *memory) Save(ctx context.Context, id string, rec game.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	next := (&GameRow{Record: rec}).clone()
	g.Record = next.Record
	g.UpdatedAt = m.now()
	return nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return ErrNotFound
	}
	delete(m.games, id)
	return nil
}

func (m *memory) ListByUser(ctx context.Context, userID string) ([]*GameRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*GameRow{}
	for _, g := range maps.Values(m.games) {
		if g.Involves(userID) {
			out = append(out, g.clone())
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *memory) AssignPlayers(ctx context.Context, id, whiteID, blackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	if g.WhiteID != "" || g.BlackID != "" {
		return ErrConflict
	}
	for _, uid := range []string{whiteID, blackID} {
		if _, ok := m.users[uid]; !ok {
			return ErrNotFound
		}
	}
	g.WhiteID, g.BlackID = whiteID, blackID
	g.UpdatedAt = m.now()
	return nil
}

func (m *memory) CreateUser(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; ok {
		return ErrConflict
	}
	for _, other := range m.users {
		if strings.EqualFold(other.Username, u.Username) {
			return ErrConflict
		}
	}
	c := *u
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.now()
	}
	m.users[c.ID] = &c
	u.CreatedAt = c.CreatedAt
	return nil
}

func (m *memory) UserByID(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, ErrNotFound
}

func (m *memory) UserByUsername(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memory) ListUsers(ctx context.Context) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*User, 0, len(m.users))
	for _, u := range maps.Values(m.users) {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out, nil
}

func (m *memory) Close() error { return nil }

// sortNewestFirst orders by creation time, then id for a stable result.
func sortNewestFirst(rows []*GameRow) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})
}
