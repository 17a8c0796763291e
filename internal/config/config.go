// internal/config/config.go
//
// Runtime configuration read from the environment.
// main loads a .env file first (godotenv), so both sources work.
//
// Database selection, in order:
//   1. DATABASE_URL, if set (memory://, sqlite://path, mysql://..., postgres://...).
//   2. DB_USERNAME/DB_PASSWORD/DB_HOST/DB_PORT/DB_NAME, if DB_NAME is set (MySQL).
//   3. sqlite://./data/connections.db

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultDatabaseURL = "sqlite://./data/connections.db"

// Config is the full server configuration.
type Config struct {
	Port      string `env:"PORT" envDefault:"3000"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBUsername  string `env:"DB_USERNAME"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"3306"`
	DBName      string `env:"DB_NAME"`
	DBMaxConns  int    `env:"DB_MAX_CONNS" envDefault:"5"`

	ClientOrigins  []string      `env:"CLIENT_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	StaticDir      string        `env:"STATIC_DIR" envDefault:"../dist"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes   int64         `env:"MAX_BODY_BYTES" envDefault:"65536"`

	VerifyOnRead     bool   `env:"VERIFY_ON_READ" envDefault:"false"`
	StrictValidation bool   `env:"STRICT_VALIDATION" envDefault:"false"`
	BlocklistFile    string `env:"BLOCKLIST_FILE"`
}

// Load parses the environment into a Config and checks it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) check() error {
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1, got %d", c.DBMaxConns)
	}
	if c.MaxBodyBytes < 1 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string { return ":" + c.Port }

// Database resolves the database URL following the selection order above.
func (c *Config) Database() (*url.URL, error) {
	raw := c.DatabaseURL
	if raw == "" && c.DBName != "" {
		u := &url.URL{
			Scheme: "mysql",
			User:   url.UserPassword(c.DBUsername, c.DBPassword),
			Host:   net.JoinHostPort(c.DBHost, c.DBPort),
			Path:   "/" + c.DBName,
		}
		return u, nil
	}
	if raw == "" {
		raw = defaultDatabaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	return u, nil
}

// SQLitePath extracts the file path from a sqlite:// URL.
// sqlite://./data/app.db and sqlite:///abs/app.db are both accepted.
func SQLitePath(u *url.URL) string {
	return u.Host + u.Path
}

// MySQLDSN converts a mysql:// URL into a go-sql-driver DSN.
func MySQLDSN(u *url.URL) string {
	var b strings.Builder
	if u.User != nil {
		b.WriteString(u.User.Username())
		if pw, ok := u.User.Password(); ok {
			b.WriteString(":" + pw)
		}
		b.WriteString("@")
	}
	b.WriteString("tcp(" + u.Host + ")")
	b.WriteString(u.Path)
	if u.RawQuery != "" {
		b.WriteString("?" + u.RawQuery)
	}
	return b.String()
}
