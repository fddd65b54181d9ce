package store

import "sync"

// Locks is a keyed mutex. Handlers hold the lock for a game id across
// load, move and save so two moves on one game never interleave.
type Locks struct {
	mu   sync.Mutex
	held map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocks returns an empty lock table.
func NewLocks() *Locks {
	return &Locks{held: make(map[string]*keyLock)}
}

// Lock blocks until id is free and returns its unlock func.
// Entries are dropped once nobody holds or waits on them.
func (l *Locks) Lock(id string) (unlock func()) {
	l.mu.Lock()
	k, ok := l.held[id]
	if !ok {
		k = &keyLock{}
		l.held[id] = k
	}
	k.refs++
	l.mu.Unlock()

	k.mu.Lock()
	return func() {
		k.mu.Unlock()
		l.mu.Lock()
		k.refs--
		if k.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}

// Len reports how many ids are currently held or waited on.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
