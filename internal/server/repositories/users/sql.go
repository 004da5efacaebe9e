package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/timex"
)

// SQLRepository stores users in the relational backend.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := r.dialect.Rebind(
		`INSERT INTO users (id, username, email, password_digest, password_salt, password_iterations, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.UserName, user.Email, user.PasswordDigest, user.PasswordSalt, user.PasswordIterations, timex.ToMillis(user.CreatedAt))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateUser
		}
		return nil, common.NewPersistenceError("create user", err)
	}

	user.CreatedAt = timex.Truncate(user.CreatedAt)
	return user, nil
}

func (r *SQLRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	query := r.dialect.Rebind(
		`SELECT id, username, email, password_digest, password_salt, password_iterations, created_at
		 FROM users WHERE username = ?`)

	return r.scanOne(ctx, "get user by login", query, login)
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := r.dialect.Rebind(
		`SELECT id, username, email, password_digest, password_salt, password_iterations, created_at
		 FROM users WHERE id = ?`)

	return r.scanOne(ctx, "get user by id", query, id)
}

func (r *SQLRepository) scanOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var createdAt int64

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.UserName, &user.Email, &user.PasswordDigest, &user.PasswordSalt, &user.PasswordIterations, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewPersistenceError(op, err)
	}

	user.CreatedAt = timex.FromMillis(createdAt)
	return user, nil
}
