package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/rqlite/gorqlite/stdlib" // registers the "rqlite" driver
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/config"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

const (
	DriverSQLite = "sqlite3"
	DriverRQLite = "rqlite"
)

// Client is the sqlx-backed Database implementation.
type Client struct {
	db     *sqlx.DB
	driver string
	logger *logging.ColoredLogger
}

// Open connects to the configured store and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *logging.ColoredLogger) (*Client, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	var (
		dsn string
		err error
	)
	switch cfg.Driver {
	case DriverSQLite:
		dsn, err = sqliteDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
	case DriverRQLite:
		dsn = cfg.DSN
		if err := WaitForRQLite(ctx, dsn, logger); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Driver, err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(maxOpen, 10))
	if cfg.Driver == DriverRQLite {
		// HTTP-backed connections; recycle them so a failed-over leader is picked up.
		db.SetConnMaxLifetime(30 * time.Second)
		db.SetConnMaxIdleTime(10 * time.Second)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	logger.ComponentInfo(logging.ComponentDatabase, "Database connected",
		zap.String("driver", cfg.Driver),
		zap.Int("max_open_conns", maxOpen),
	)
	return &Client{db: db, driver: cfg.Driver, logger: logger}, nil
}

// NewClient wraps an existing handle. Used with sqlmock in tests.
func NewClient(db *sqlx.DB, driver string) *Client {
	return &Client{db: db, driver: driver, logger: logging.NewNop()}
}

// sqliteDSN turns a file path into a mattn DSN with the pragmas the stores
// rely on: enforced foreign keys (cascades), WAL and a busy timeout.
func sqliteDSN(path string) (string, error) {
	path = strings.TrimPrefix(strings.TrimSpace(path), "file:")
	if path == "" {
		return "", fmt.Errorf("sqlite dsn must not be empty")
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", "5000")
	q.Set("_journal_mode", "WAL")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode(), nil
}

// Query implements Database.
func (c *Client) Query(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return c.db.SelectContext(ctx, dest, query, args...)
}

// QueryOne implements Database.
func (c *Client) QueryOne(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return c.db.GetContext(ctx, dest, query, args...)
}

// Exec implements Database.
func (c *Client) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}

// Ping checks connectivity; used by /v1/status.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Driver reports the driver name the client was opened with.
func (c *Client) Driver() string { return c.driver }

// DB exposes the underlying handle for migrations.
func (c *Client) DB() *sqlx.DB { return c.db }

// Close closes the pool.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
