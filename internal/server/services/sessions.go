package services

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

// Session is what register and login return: the user and a token pair.
type Session struct {
	User *models.PublicUser `json:"user"`
	models.TokenPair
}

// SessionService combines the user directory and the token issuer into the
// operations exposed to clients.
type SessionService struct {
	users  *UserDirectory
	tokens *TokenIssuer
	logger logging.Logger
}

func NewSessionService(users *UserDirectory, tokens *TokenIssuer, logger logging.Logger) *SessionService {
	return &SessionService{users: users, tokens: tokens, logger: logger.With("module", "sessions")}
}

// Register creates a user and logs them in.
func (s *SessionService) Register(ctx context.Context, username, password, email string) (*Session, error) {
	user, err := s.users.CreateUser(ctx, username, password, email)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, user)
}

// Login authenticates and issues a token pair.
func (s *SessionService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.Warn(ctx, "login failed", "username", username)
		return nil, err
	}
	return s.open(ctx, user)
}

func (s *SessionService) open(ctx context.Context, user *models.PublicUser) (*Session, error) {
	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "session opened", "user_id", user.ID)
	return &Session{User: user, TokenPair: *pair}, nil
}

// Refresh returns a new access token for a valid refresh token.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	access, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		s.logger.Warn(ctx, "token refresh failed", "error", err)
		return "", err
	}
	return access, nil
}

// Logout revokes refreshToken. Unknown tokens are not an error; only backend
// faults are returned.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	_, err := s.tokens.Revoke(ctx, refreshToken)
	return err
}

// WhoAmI resolves an access token to its user.
func (s *SessionService) WhoAmI(accessToken string) (*models.PublicUser, error) {
	claims, ok := s.tokens.VerifyAccess(accessToken)
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return claims.User(), nil
}
