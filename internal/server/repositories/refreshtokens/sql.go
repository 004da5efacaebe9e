package refreshtokens

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/timex"
)

// SQLRepository implements Repository over dbx.DBTX (satisfied by *sql.DB or *sql.Tx).
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	query := r.dialect.Rebind(`
		INSERT INTO refresh_tokens (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		token.Token, token.UserID, timex.ToMillis(token.CreatedAt), timex.ToMillis(token.ExpiresAt))
	return common.NewPersistenceError("create refresh token", err)
}

func (r *SQLRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := r.dialect.Rebind(`
		SELECT token, user_id, created_at, expires_at
		FROM refresh_tokens
		WHERE token = ?
	`)

	t := &models.RefreshToken{}
	var createdAt, expiresAt int64
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&t.Token, &t.UserID, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewPersistenceError("find refresh token", err)
	}
	t.CreatedAt = timex.FromMillis(createdAt)
	t.ExpiresAt = timex.FromMillis(expiresAt)
	return t, nil
}

func (r *SQLRepository) Delete(ctx context.Context, token string) (bool, error) {
	query := r.dialect.Rebind(`
		DELETE FROM refresh_tokens
		WHERE token = ?
	`)
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, common.NewPersistenceError("delete refresh token", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, common.NewPersistenceError("delete refresh token", err)
	}
	return n > 0, nil
}
