package users

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

// MemoryRepository keeps users in process memory. Accounts are lost on restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byLogin map[string]string
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byLogin: make(map[string]string),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byLogin[user.UserName]; ok {
		return nil, common.ErrDuplicateUser
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrDuplicateUser
	}

	stored := cloneUser(user)
	r.byID[stored.ID] = stored
	r.byLogin[stored.UserName] = stored.ID
	r.byEmail[stored.Email] = stored.ID

	return cloneUser(stored), nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byLogin[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.PasswordDigest = slices.Clone(u.PasswordDigest)
	c.PasswordSalt = slices.Clone(u.PasswordSalt)
	return &c
}
