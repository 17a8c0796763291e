// db.go
//
// Store selection for the connections server.
// Responsibilities:
//   - Map the configured database URL onto a store backend.
//   - Apply pool limits (DB_MAX_CONNS) and run that backend's migrations.
//
// Supported schemes: memory, sqlite, mysql, postgres/postgresql.

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/config"
	"github.com/robalobadob/connections/internal/store"
)

// openStore opens the backend named by cfg.Database().
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	u, err := cfg.Database()
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "memory":
		log.Warn().Msg("using in-memory store; puzzles are lost on restart")
		return store.NewMemoryStore(), nil
	case "sqlite", "sqlite3":
		path := config.SQLitePath(u)
		log.Info().Str("path", path).Msg("opening sqlite store")
		return store.OpenSQLite(ctx, path, cfg.DBMaxConns)
	case "mysql":
		log.Info().Str("host", u.Host).Str("db", u.Path).Msg("opening mysql store")
		return store.OpenMySQL(ctx, config.MySQLDSN(u), cfg.DBMaxConns)
	case "postgres", "postgresql":
		log.Info().Str("host", u.Host).Str("db", u.Path).Msg("opening postgres store")
		return store.OpenPostgres(ctx, u.String(), cfg.DBMaxConns)
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}
