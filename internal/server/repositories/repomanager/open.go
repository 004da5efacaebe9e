package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/migrations"
	"github.com/dmitrijs2005/smartnotes/internal/server/snapshot"
)

// seams for tests
var (
	openDB        = dbx.Open
	runMigrations = migrations.Up
	resetSchema   = migrations.Reset
)

// Open initialises the backend named by cfg.StorageBackend eagerly, so a bad
// path, DSN or snapshot fails at startup rather than on the first request.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*RepositoryManager, error) {
	logger = logger.With("module", "repomanager")

	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Info(ctx, "using in-memory storage")
		return NewInMemory(), nil

	case config.BackendFile:
		sink, err := snapshot.NewSink(ctx, cfg.DataFile, cfg)
		if err != nil {
			return nil, err
		}
		m, err := NewFile(ctx, sink)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "using file storage", "location", sink.Location())
		return m, nil

	case config.BackendRelational:
		return openRelational(ctx, cfg, logger)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func openRelational(ctx context.Context, cfg *config.Config, logger logging.Logger) (*RepositoryManager, error) {
	dialect, err := dbx.ParseDialect(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	if cfg.ResetOnStart && dialect == dbx.DialectSQLite {
		logger.Warn(ctx, "reset on start enabled, database will be recreated", "path", sqlitePath(cfg.DatabaseDSN))
		if err := removeSQLiteFiles(cfg.DatabaseDSN); err != nil {
			return nil, err
		}
	}

	db, err := openDB(ctx, dialect, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := migrate(ctx, db, dialect, cfg.ResetOnStart, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info(ctx, "using relational storage", "dialect", string(dialect))
	return NewSQL(db, dialect), nil
}

func migrate(ctx context.Context, db *sql.DB, dialect dbx.Dialect, reset bool, logger logging.Logger) error {
	// SQLite was reset by deleting the file, Postgres is rolled back in place
	if reset && dialect == dbx.DialectPostgres {
		logger.Warn(ctx, "reset on start enabled, dropping all tables")
		return resetSchema(ctx, db, dialect)
	}
	return runMigrations(ctx, db, dialect)
}

// removeSQLiteFiles deletes the database file named by dsn together with
// its journal files. In-memory databases are left alone.
func removeSQLiteFiles(dsn string) error {
	path := sqlitePath(dsn)
	if path == "" || path == ":memory:" {
		return nil
	}
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reset database: %w", err)
		}
	}
	return nil
}

func sqlitePath(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "file:")
	path, _, _ := strings.Cut(dsn, "?")
	return path
}
