package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/cryptox"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/documents"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/users"
)

var testSecret = []byte("test-secret")

type fixture struct {
	users    *UserDirectory
	tokens   *TokenIssuer
	sessions *SessionService
	docs     *DocumentService
	refresh  refreshtokens.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logging.Discard()
	refresh := refreshtokens.NewMemoryRepository()
	dir := NewUserDirectory(users.NewMemoryRepository(), cryptox.Hasher{}, log)
	tokens := NewTokenIssuer(refresh, dir, testSecret, time.Hour, 24*time.Hour, log)
	return &fixture{
		users:    dir,
		tokens:   tokens,
		sessions: NewSessionService(dir, tokens, log),
		docs:     NewDocumentService(documents.NewMemoryStore(), log),
		refresh:  refresh,
	}
}

var errBackend = errors.New("backend down")

// brokenUsers fails every call with errBackend.
type brokenUsers struct{}

func (brokenUsers) Create(context.Context, *models.User) (*models.User, error) {
	return nil, common.NewPersistenceError("create user", errBackend)
}
func (brokenUsers) GetUserByLogin(context.Context, string) (*models.User, error) {
	return nil, common.NewPersistenceError("get user", errBackend)
}
func (brokenUsers) GetUserByID(context.Context, string) (*models.User, error) {
	return nil, common.NewPersistenceError("get user", errBackend)
}

// brokenTokens fails every call with errBackend.
type brokenTokens struct{}

func (brokenTokens) Create(context.Context, *models.RefreshToken) error {
	return common.NewPersistenceError("create refresh token", errBackend)
}
func (brokenTokens) Find(context.Context, string) (*models.RefreshToken, error) {
	return nil, common.NewPersistenceError("find refresh token", errBackend)
}
func (brokenTokens) Delete(context.Context, string) (bool, error) {
	return false, common.NewPersistenceError("delete refresh token", errBackend)
}

func strPtr(s string) *string { return &s }
