// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

// Repository persists users. Create reports common.ErrDuplicateUser when the
// username or email is taken; lookups report common.ErrorNotFound on a miss.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
