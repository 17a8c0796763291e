// internal/store/sql.go
//
// database/sql implementation of Store for SQLite and MySQL.
// Responsibilities:
//   - Opening the database with safe defaults and a bounded pool.
//   - Applying embedded migrations for the dialect.
//   - Single-statement insert/lookup against the items table.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"

	"github.com/robalobadob/connections/assets"
)

// Dialects understood by the SQL backends.
const (
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
)

// SQLStore keeps tokens in the items table of a database/sql database.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// OpenSQLite opens (and creates if missing) a SQLite database file.
//
//   - Ensures the parent directory exists for relative paths (e.g. ./data/app.db).
//   - Configures busy timeout and WAL journaling mode.
//   - Applies migrations.
func OpenSQLite(ctx context.Context, path string, maxConns int) (*SQLStore, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	return newSQLStore(ctx, db, DialectSQLite, maxConns)
}

// OpenMySQL connects to MySQL using a go-sql-driver DSN
// (user:pass@tcp(host:port)/db) and applies migrations.
func OpenMySQL(ctx context.Context, dsn string, maxConns int) (*SQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return newSQLStore(ctx, sql.OpenDB(connector), DialectMySQL, maxConns)
}

func newSQLStore(ctx context.Context, db *sql.DB, dialect string, maxConns int) (*SQLStore, error) {
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s: %w", dialect, err)
	}
	migrations, err := assets.Migrations(dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := Migrate(ctx, db, migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dialect, err)
	}
	return &SQLStore{db: db, dialect: dialect}, nil
}

// Dialect returns "sqlite" or "mysql".
func (s *SQLStore) Dialect() string { return s.dialect }

// Put inserts a new row. A duplicate identifier yields ErrConflict.
func (s *SQLStore) Put(ctx context.Context, id, token string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO items (id, game_encoding) VALUES (?, ?)`, id, token)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Get returns the stored token for id.
func (s *SQLStore) Get(ctx context.Context, id string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT game_encoding FROM items WHERE id = ?`, id).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select item: %w", err)
	}
	return token, nil
}

func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLStore) Close() error { return s.db.Close() }

// isDuplicateKey recognizes primary key violations from either driver.
func isDuplicateKey(err error) bool {
	var le sqlite3.Error
	if errors.As(err, &le) {
		return le.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			le.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062 // ER_DUP_ENTRY
	}
	return false
}
