// Package refreshtokens declares the repository contract for persisted
// refresh tokens, with in-memory and relational implementations.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find looks up a refresh token by its opaque value. A miss is common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token and reports whether it existed.
	// Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) (bool, error)
}
