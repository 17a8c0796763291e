// internal/store/store.go
//
// Persistence for puzzle tokens.
// A token is stored once under its identifier and read back verbatim;
// there are no updates or deletes.
//
// Implementations:
//   - memory   (memory.go)   process-local map
//   - SQLStore (sql.go)      database/sql with SQLite or MySQL
//   - Postgres (postgres.go) pgx connection pool

package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no token exists for the identifier.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by Put when the identifier is already taken.
	ErrConflict = errors.New("identifier already exists")
)

// Store defines the persistence interface for puzzle tokens.
type Store interface {
	// Put stores token under id in a single atomic insert.
	Put(ctx context.Context, id, token string) error

	// Get returns the token stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) (string, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases connections held by the store.
	Close() error
}

// IsNotFound reports whether err means the identifier does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
