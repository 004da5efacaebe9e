// Package services contains the server-side business logic: the user
// directory, token issuing, the session façade over both, and the document
// service in front of the document store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/cryptox"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/users"
	"github.com/google/uuid"
)

// UserDirectory registers and authenticates users.
type UserDirectory struct {
	repo   users.Repository
	hasher cryptox.Hasher
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

// NewUserDirectory constructs a UserDirectory over repo.
func NewUserDirectory(repo users.Repository, hasher cryptox.Hasher, logger logging.Logger) *UserDirectory {
	return &UserDirectory{
		repo:   repo,
		hasher: hasher,
		logger: logger.With("module", "users"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// CreateUser registers a new account. All three fields are required; a taken
// username or email yields common.ErrDuplicateUser.
func (d *UserDirectory) CreateUser(ctx context.Context, username, password, email string) (*models.PublicUser, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || strings.TrimSpace(password) == "" || email == "" {
		return nil, fmt.Errorf("%w: username, password and email are required", common.ErrorValidation)
	}

	digest, salt, err := d.hasher.HashPassword([]byte(password), nil)
	if err != nil {
		return nil, err
	}

	user, err := d.repo.Create(ctx, &models.User{
		ID:                 d.newID(),
		UserName:           username,
		Email:              email,
		PasswordDigest:     digest,
		PasswordSalt:       salt,
		PasswordIterations: d.hasher.WorkFactor(),
		CreatedAt:          d.now(),
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUser) {
			d.logger.Warn(ctx, "registration rejected", "username", username, "reason", "duplicate")
		}
		return nil, err
	}

	d.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user.Public(), nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords both yield common.ErrInvalidCredentials.
func (d *UserDirectory) Authenticate(ctx context.Context, username, password string) (*models.PublicUser, error) {
	user, err := d.repo.GetUserByLogin(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same work as a real check so timing does not reveal the miss
			_, _, _ = d.hasher.HashPassword([]byte(password), nil)
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	// verify with the work factor the digest was made with, so changing the
	// configured count only affects new accounts
	stored := cryptox.Hasher{Iterations: user.PasswordIterations}
	if !stored.VerifyPassword([]byte(password), user.PasswordDigest, user.PasswordSalt) {
		return nil, common.ErrInvalidCredentials
	}
	if stored.WorkFactor() != d.hasher.WorkFactor() {
		d.logger.Debug(ctx, "password digest uses a different work factor", "user_id", user.ID, "iterations", stored.WorkFactor())
	}
	return user.Public(), nil
}

// FindByID returns the full user record, or common.ErrorNotFound.
func (d *UserDirectory) FindByID(ctx context.Context, id string) (*models.User, error) {
	return d.repo.GetUserByID(ctx, id)
}
