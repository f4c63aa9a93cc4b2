package database

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/rqlite"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/logging"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrateLogger adapts ColoredLogger to migrate.Logger.
type migrateLogger struct {
	logger *logging.ColoredLogger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.ComponentInfo(logging.ComponentDatabase, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool { return false }

// Migrate applies every pending embedded migration. It is idempotent: an
// up-to-date schema is not an error. For rqlite, dsn is the cluster URL the
// client was opened with.
func Migrate(c *Client, dsn string, logger *logging.ColoredLogger) error {
	if logger == nil {
		logger = logging.NewNop()
	}

	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	defer src.Close()

	var driver migratedb.Driver
	switch c.Driver() {
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(c.DB().DB, &migratesqlite.Config{})
	case DriverRQLite:
		conn, cerr := NewRQLiteConnection(dsn)
		if cerr != nil {
			return fmt.Errorf("open rqlite for migrations: %w", cerr)
		}
		defer conn.Close()
		driver, err = rqlite.WithInstance(conn, &rqlite.Config{})
	default:
		return fmt.Errorf("migrations unsupported for driver %q", c.Driver())
	}
	if err != nil {
		return fmt.Errorf("init migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, c.Driver(), driver)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	m.Log = migrateLogger{logger: logger}

	before, _, _ := m.Version()
	// m.Close is not called: the sqlite3 driver would close the shared pool.
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.ComponentInfo(logging.ComponentDatabase, "Schema up to date", zap.Uint("version", before))
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	after, dirty, _ := m.Version()
	logger.ComponentInfo(logging.ComponentDatabase, "Migrations applied",
		zap.Uint("from", before),
		zap.Uint("to", after),
		zap.Bool("dirty", dirty),
	)
	return nil
}
