package documents

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/timex"
)

// Containers are ordered by id. There are no foreign keys between them, so
// deleting a notebook leaves its groups, sections and documents in place.

func (s *SQLStore) CreateNotebook(ctx context.Context, name string, owner *string) (*models.Notebook, error) {
	now := timex.Truncate(s.now())
	n := &models.Notebook{Name: name, UserID: clonePtr(owner), CreatedAt: now, UpdatedAt: now}

	query := s.dialect.Rebind(`INSERT INTO notebooks (name, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?) RETURNING id`)
	if err := s.db.QueryRowContext(ctx, query, name, owner, timex.ToMillis(now), timex.ToMillis(now)).Scan(&n.ID); err != nil {
		return nil, common.NewPersistenceError("create notebook", err)
	}
	return n, nil
}

func (s *SQLStore) ListNotebooks(ctx context.Context, owner string) ([]*models.Notebook, error) {
	query := `SELECT id, name, user_id, created_at, updated_at FROM notebooks`
	var args []any
	if owner != "" {
		query += ` WHERE user_id = ? OR user_id IS NULL`
		args = append(args, owner)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, common.NewPersistenceError("list notebooks", err)
	}
	defer rows.Close()

	out := []*models.Notebook{}
	for rows.Next() {
		n := &models.Notebook{}
		var userID sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(&n.ID, &n.Name, &userID, &createdAt, &updatedAt); err != nil {
			return nil, common.NewPersistenceError("list notebooks", err)
		}
		n.UserID = nullString(userID)
		n.CreatedAt = timex.FromMillis(createdAt)
		n.UpdatedAt = timex.FromMillis(updatedAt)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("list notebooks", err)
	}
	return out, nil
}

func (s *SQLStore) DeleteNotebook(ctx context.Context, id int64) (bool, error) {
	return s.deleteRow(ctx, "delete notebook", `DELETE FROM notebooks WHERE id = ?`, id)
}

func (s *SQLStore) CreateSectionGroup(ctx context.Context, notebookID int64, name string) (*models.SectionGroup, error) {
	now := timex.Truncate(s.now())
	g := &models.SectionGroup{NotebookID: notebookID, Name: name, CreatedAt: now, UpdatedAt: now}

	query := s.dialect.Rebind(`INSERT INTO section_groups (notebook_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?) RETURNING id`)
	if err := s.db.QueryRowContext(ctx, query, notebookID, name, timex.ToMillis(now), timex.ToMillis(now)).Scan(&g.ID); err != nil {
		return nil, common.NewPersistenceError("create section group", err)
	}
	return g, nil
}

func (s *SQLStore) ListSectionGroups(ctx context.Context, notebookID int64) ([]*models.SectionGroup, error) {
	query := s.dialect.Rebind(`SELECT id, notebook_id, name, created_at, updated_at
		FROM section_groups WHERE notebook_id = ? ORDER BY id`)

	rows, err := s.db.QueryContext(ctx, query, notebookID)
	if err != nil {
		return nil, common.NewPersistenceError("list section groups", err)
	}
	defer rows.Close()

	out := []*models.SectionGroup{}
	for rows.Next() {
		g := &models.SectionGroup{}
		var createdAt, updatedAt int64
		if err := rows.Scan(&g.ID, &g.NotebookID, &g.Name, &createdAt, &updatedAt); err != nil {
			return nil, common.NewPersistenceError("list section groups", err)
		}
		g.CreatedAt = timex.FromMillis(createdAt)
		g.UpdatedAt = timex.FromMillis(updatedAt)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("list section groups", err)
	}
	return out, nil
}

func (s *SQLStore) DeleteSectionGroup(ctx context.Context, id int64) (bool, error) {
	return s.deleteRow(ctx, "delete section group", `DELETE FROM section_groups WHERE id = ?`, id)
}

func (s *SQLStore) CreateSection(ctx context.Context, notebookID int64, sectionGroupID *int64, name string) (*models.Section, error) {
	now := timex.Truncate(s.now())
	sec := &models.Section{NotebookID: notebookID, SectionGroupID: clonePtr(sectionGroupID), Name: name, CreatedAt: now, UpdatedAt: now}

	query := s.dialect.Rebind(`INSERT INTO sections (notebook_id, section_group_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err := s.db.QueryRowContext(ctx, query, notebookID, sectionGroupID, name, timex.ToMillis(now), timex.ToMillis(now)).Scan(&sec.ID)
	if err != nil {
		return nil, common.NewPersistenceError("create section", err)
	}
	return sec, nil
}

func (s *SQLStore) ListSections(ctx context.Context, notebookID int64) ([]*models.Section, error) {
	query := s.dialect.Rebind(`SELECT id, notebook_id, section_group_id, name, created_at, updated_at
		FROM sections WHERE notebook_id = ? ORDER BY id`)

	rows, err := s.db.QueryContext(ctx, query, notebookID)
	if err != nil {
		return nil, common.NewPersistenceError("list sections", err)
	}
	defer rows.Close()

	out := []*models.Section{}
	for rows.Next() {
		sec := &models.Section{}
		var groupID sql.NullInt64
		var createdAt, updatedAt int64
		if err := rows.Scan(&sec.ID, &sec.NotebookID, &groupID, &sec.Name, &createdAt, &updatedAt); err != nil {
			return nil, common.NewPersistenceError("list sections", err)
		}
		sec.SectionGroupID = nullInt(groupID)
		sec.CreatedAt = timex.FromMillis(createdAt)
		sec.UpdatedAt = timex.FromMillis(updatedAt)
		out = append(out, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("list sections", err)
	}
	return out, nil
}

func (s *SQLStore) DeleteSection(ctx context.Context, id int64) (bool, error) {
	return s.deleteRow(ctx, "delete section", `DELETE FROM sections WHERE id = ?`, id)
}

func (s *SQLStore) deleteRow(ctx context.Context, op, query string, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), id)
	if err != nil {
		return false, common.NewPersistenceError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, common.NewPersistenceError(op, err)
	}
	return n > 0, nil
}
