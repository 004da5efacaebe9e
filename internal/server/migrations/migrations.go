// Package migrations holds the relational schema as goose migrations: SQL
// files per dialect plus one Go migration that upgrades the documents table
// in place.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

// documentColumn is a column the documents table gained after its first
// release, with the value written into existing rows. Columns with a
// REFERENCES clause must stay nullable so SQLite accepts them in ADD COLUMN.
type documentColumn struct {
	name     string
	sqlite   string
	postgres string
	backfill string
}

var documentColumns = []documentColumn{
	{name: "tags", sqlite: "TEXT", postgres: "TEXT", backfill: "'[]'"},
	{name: "user_id", sqlite: "TEXT REFERENCES users(id)", postgres: "TEXT REFERENCES users(id)"},
	{name: "notebook_id", sqlite: "INTEGER", postgres: "BIGINT"},
	{name: "section_group_id", sqlite: "INTEGER", postgres: "BIGINT"},
	{name: "section_id", sqlite: "INTEGER", postgres: "BIGINT"},
	{name: "created_at", sqlite: "INTEGER", postgres: "BIGINT", backfill: "0"},
	{name: "updated_at", sqlite: "INTEGER", postgres: "BIGINT", backfill: "0"},
}

// NewProvider builds a goose provider for dialect over db.
func NewProvider(db *sql.DB, dialect dbx.Dialect) (*goose.Provider, error) {
	gooseDialect := goose.DialectSQLite3
	if dialect == dbx.DialectPostgres {
		gooseDialect = goose.DialectPostgres
	}

	fsys, err := fs.Sub(Migrations, string(dialect))
	if err != nil {
		return nil, err
	}

	return goose.NewProvider(gooseDialect, db, fsys,
		goose.WithGoMigrations(
			goose.NewGoMigration(2, &goose.GoFunc{
				RunTx: func(ctx context.Context, tx *sql.Tx) error {
					return addDocumentColumns(ctx, tx, dialect)
				},
			}, &goose.GoFunc{
				// the columns go away with the table in 00001's down step
				RunTx: func(ctx context.Context, tx *sql.Tx) error { return nil },
			}),
		),
	)
}

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	provider, err := NewProvider(db, dialect)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Reset rolls every migration back, dropping all tables, and applies them
// again.
func Reset(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	provider, err := NewProvider(db, dialect)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.DownTo(ctx, 0); err != nil {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// addDocumentColumns inspects the documents table and adds whatever columns
// it lacks, backfilling sentinel values into existing rows.
func addDocumentColumns(ctx context.Context, tx dbx.DBTX, dialect dbx.Dialect) error {
	existing, err := documentColumnNames(ctx, tx, dialect)
	if err != nil {
		return err
	}

	for _, col := range documentColumns {
		if existing[col.name] {
			continue
		}

		typ := col.sqlite
		if dialect == dbx.DialectPostgres {
			typ = col.postgres
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE documents ADD COLUMN %s %s`, col.name, typ)); err != nil {
			return fmt.Errorf("add documents.%s: %w", col.name, err)
		}

		if col.backfill != "" {
			q := fmt.Sprintf(`UPDATE documents SET %s = %s WHERE %s IS NULL`, col.name, col.backfill, col.name)
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("backfill documents.%s: %w", col.name, err)
			}
		}
	}
	return nil
}

func documentColumnNames(ctx context.Context, tx dbx.DBTX, dialect dbx.Dialect) (map[string]bool, error) {
	query := `SELECT name FROM pragma_table_info('documents')`
	if dialect == dbx.DialectPostgres {
		query = `SELECT column_name FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = 'documents'`
	}

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("inspect documents: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
