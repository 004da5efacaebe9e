package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/timex"
)

// SQLStore keeps documents in a relational database. The schema is owned by
// the migrations package and must be applied before use. Lists are ordered
// by most recent update first.
type SQLStore struct {
	db      *sql.DB
	dialect dbx.Dialect
	now     func() time.Time
}

func NewSQLStore(db *sql.DB, dialect dbx.Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, now: time.Now}
}

const documentColumns = `id, COALESCE(title, ''), COALESCE(content, ''), COALESCE(tags, '[]'), user_id,
	notebook_id, section_group_id, section_id, COALESCE(created_at, 0), COALESCE(updated_at, 0)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner, extra ...any) (*models.Document, error) {
	d := &models.Document{}
	var (
		tags                                  string
		userID                                sql.NullString
		notebookID, sectionGroupID, sectionID sql.NullInt64
		createdAt, updatedAt                  int64
	)

	dest := append([]any{&d.ID, &d.Title, &d.Content, &tags, &userID,
		&notebookID, &sectionGroupID, &sectionID, &createdAt, &updatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	d.Tags = decodeTags(tags)
	d.UserID = nullString(userID)
	d.NotebookID = nullInt(notebookID)
	d.SectionGroupID = nullInt(sectionGroupID)
	d.SectionID = nullInt(sectionID)
	d.CreatedAt = timex.FromMillis(createdAt)
	d.UpdatedAt = timex.FromMillis(updatedAt)
	return d, nil
}

func (s *SQLStore) List(ctx context.Context, owner string) ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	var args []any
	if owner != "" {
		query += ` WHERE user_id = ? OR user_id IS NULL`
		args = append(args, owner)
	}
	query += ` ORDER BY updated_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, common.NewPersistenceError("list documents", err)
	}
	defer rows.Close()

	out := []*models.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, common.NewPersistenceError("list documents", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("list documents", err)
	}
	return out, nil
}

func (s *SQLStore) Create(ctx context.Context, in models.DocumentInput) (*models.Document, error) {
	now := timex.Truncate(s.now())
	d := &models.Document{
		Title:          in.Title,
		Content:        in.Content,
		Tags:           models.NormalizeTags(in.Tags),
		UserID:         in.UserID,
		NotebookID:     in.NotebookID,
		SectionGroupID: in.SectionGroupID,
		SectionID:      in.SectionID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	query := s.dialect.Rebind(`INSERT INTO documents
		(title, content, tags, user_id, notebook_id, section_group_id, section_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := s.db.QueryRowContext(ctx, query,
		d.Title, d.Content, encodeTags(d.Tags), d.UserID, d.NotebookID, d.SectionGroupID, d.SectionID,
		timex.ToMillis(now), timex.ToMillis(now)).Scan(&d.ID)
	if err != nil {
		return nil, common.NewPersistenceError("create document", err)
	}
	return d.Clone(), nil
}

func (s *SQLStore) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	return s.getByID(ctx, s.db, id)
}

func (s *SQLStore) getByID(ctx context.Context, db dbx.DBTX, id int64) (*models.Document, error) {
	query := s.dialect.Rebind(`SELECT ` + documentColumns + ` FROM documents WHERE id = ?`)

	d, err := scanDocument(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewPersistenceError("get document", err)
	}
	return d, nil
}

// Update snapshots the current row and applies patch in one transaction.
func (s *SQLStore) Update(ctx context.Context, id int64, patch models.DocumentPatch) (*models.Document, error) {
	var updated *models.Document

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		current, err := s.getByID(ctx, tx, id)
		if err != nil {
			return err
		}

		now := timex.Truncate(s.now())
		if err := s.insertVersion(ctx, tx, current, now); err != nil {
			return err
		}

		next := current.Clone()
		patch.Apply(next)
		next.UpdatedAt = now

		query := s.dialect.Rebind(`UPDATE documents
			SET title = ?, content = ?, tags = ?, notebook_id = ?, section_group_id = ?, section_id = ?, updated_at = ?
			WHERE id = ?`)
		if _, err := tx.ExecContext(ctx, query,
			next.Title, next.Content, encodeTags(next.Tags), next.NotebookID, next.SectionGroupID, next.SectionID,
			timex.ToMillis(now), id); err != nil {
			return common.NewPersistenceError("update document", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, asPersistence("update document", err)
	}
	return updated, nil
}

// Delete snapshots the current row and removes it in one transaction.
func (s *SQLStore) Delete(ctx context.Context, id int64) (bool, error) {
	var removed bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		current, err := s.getByID(ctx, tx, id)
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.insertVersion(ctx, tx, current, timex.Truncate(s.now())); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM documents WHERE id = ?`), id); err != nil {
			return common.NewPersistenceError("delete document", err)
		}

		removed = true
		return nil
	})
	if err != nil {
		return false, asPersistence("delete document", err)
	}
	return removed, nil
}

func (s *SQLStore) insertVersion(ctx context.Context, tx dbx.DBTX, d *models.Document, at time.Time) error {
	query := s.dialect.Rebind(`INSERT INTO document_versions
		(document_id, title, content, tags, user_id, notebook_id, section_group_id, section_id, created_at, updated_at, versioned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := tx.ExecContext(ctx, query,
		d.ID, d.Title, d.Content, encodeTags(d.Tags), d.UserID, d.NotebookID, d.SectionGroupID, d.SectionID,
		timex.ToMillis(d.CreatedAt), timex.ToMillis(d.UpdatedAt), timex.ToMillis(at))
	return common.NewPersistenceError("record version", err)
}

func (s *SQLStore) ListVersions(ctx context.Context, id int64) ([]*models.Version, error) {
	query := s.dialect.Rebind(`SELECT document_id, title, content, tags, user_id,
		notebook_id, section_group_id, section_id, created_at, updated_at, versioned_at
		FROM document_versions WHERE document_id = ? ORDER BY id ASC`)

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, common.NewPersistenceError("list versions", err)
	}
	defer rows.Close()

	out := []*models.Version{}
	for rows.Next() {
		var versionedAt int64
		d, err := scanDocument(rows, &versionedAt)
		if err != nil {
			return nil, common.NewPersistenceError("list versions", err)
		}
		out = append(out, &models.Version{Document: *d, VersionedAt: timex.FromMillis(versionedAt)})
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("list versions", err)
	}
	return out, nil
}

// asPersistence leaves sentinel and already-classified errors alone and
// wraps everything else, such as a failed begin or commit.
func asPersistence(op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrPersistence) {
		return err
	}
	return common.NewPersistenceError(op, err)
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

// decodeTags tolerates the empty or malformed values older rows may hold.
func decodeTags(s string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
