// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used for development, tests, and DATABASE_URL=memory://.
//
// Characteristics:
//   - Tokens keyed by identifier in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex      // guards tokens map
	tokens map[string]string // keyed by puzzle identifier
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{tokens: make(map[string]string)}
}

// Put inserts the token. An existing identifier is never overwritten.
func (m *memory) Put(ctx context.Context, id, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[id]; ok {
		return ErrConflict
	}
	m.tokens[id] = token
	return nil
}

// Get looks up a token by identifier.
func (m *memory) Get(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tokens[id]; ok {
		return t, nil
	}
	return "", ErrNotFound
}

func (m *memory) Ping(ctx context.Context) error { return ctx.Err() }

func (m *memory) Close() error { return nil }
