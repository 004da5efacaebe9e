package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/auth"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/refreshtokens"
)

// refreshTokenBytes is the entropy of a refresh token before hex encoding.
const refreshTokenBytes = 32

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// TokenIssuer mints stateless access tokens and server-stored refresh
// tokens. Access tokens cannot be revoked before they expire.
type TokenIssuer struct {
	repo       refreshtokens.Repository
	users      userFinder
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     logging.Logger
	now        func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer signing with secret.
func NewTokenIssuer(repo refreshtokens.Repository, users userFinder, secret []byte, accessTTL, refreshTTL time.Duration, logger logging.Logger) *TokenIssuer {
	return &TokenIssuer{
		repo:       repo,
		users:      users,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger.With("module", "tokens"),
		now:        time.Now,
	}
}

// Issue creates an access token for user and stores a new refresh token.
func (s *TokenIssuer) Issue(ctx context.Context, user *models.PublicUser) (*models.TokenPair, error) {
	access, err := auth.GenerateToken(user, s.secret, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := common.MakeRandHexString(refreshTokenBytes)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.repo.Create(ctx, &models.RefreshToken{
		Token:     refresh,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token. Any failure, including a wrong
// signing algorithm or expiry, is reported as false.
func (s *TokenIssuer) VerifyAccess(token string) (*auth.Claims, bool) {
	claims, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token is not rotated and stays valid until it expires or is revoked.
func (s *TokenIssuer) Refresh(ctx context.Context, token string) (string, error) {
	stored, err := s.repo.Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidRefreshToken
		}
		return "", err
	}

	if stored.IsExpired(s.now()) {
		if _, err := s.repo.Delete(ctx, token); err != nil {
			s.logger.Error(ctx, "failed to delete expired refresh token", "user_id", stored.UserID, "error", err)
		}
		return "", common.ErrRefreshTokenExpired
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUserNotFound
		}
		return "", err
	}

	return auth.GenerateToken(user.Public(), s.secret, s.accessTTL)
}

// Revoke deletes a refresh token and reports whether it existed.
func (s *TokenIssuer) Revoke(ctx context.Context, token string) (bool, error) {
	return s.repo.Delete(ctx, token)
}
