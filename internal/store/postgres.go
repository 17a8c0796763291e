// internal/store/postgres.go
//
// PostgreSQL implementation of Store backed by a pgx connection pool.

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/assets"
)

// PostgresStore keeps tokens in the items table of a PostgreSQL database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to connStr with at most maxConns pooled connections
// and applies migrations.
// The caller is responsible for calling Close() on the store.
func OpenPostgres(ctx context.Context, connStr string, maxConns int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	var username, database string
	if err := pool.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database); err != nil {
		pool.Close()
		return nil, fmt.Errorf("query postgres: %w", err)
	}
	log.Info().Str("database", database).Str("user", username).Msg("connected to postgres")

	migrations, err := assets.Migrations(DialectPostgres)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := migratePostgres(ctx, pool, migrations); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// migratePostgres mirrors Migrate for a pgx pool.
func migratePostgres(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) error {
	if _, err := pool.Exec(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	files, err := migrationFiles(fsys)
	if err != nil {
		return err
	}
	for _, f := range files {
		var done int
		err := pool.QueryRow(ctx, `SELECT 1 FROM _migrations WHERE name=$1`, f).Scan(&done)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}
		body, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return fmt.Errorf("apply %s: %w", f, err)
			}
			if _, err := tx.Exec(ctx, `INSERT INTO _migrations(name) VALUES ($1)`, f); err != nil {
				return fmt.Errorf("record %s: %w", f, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// Put inserts a new row. A duplicate identifier yields ErrConflict.
func (p *PostgresStore) Put(ctx context.Context, id, token string) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO items (id, game_encoding) VALUES ($1, $2)`, id, token)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrConflict
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Get returns the stored token for id.
func (p *PostgresStore) Get(ctx context.Context, id string) (string, error) {
	var token string
	err := p.pool.QueryRow(ctx, `SELECT game_encoding FROM items WHERE id = $1`, id).Scan(&token)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select item: %w", err)
	}
	return token, nil
}

func (p *PostgresStore) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
