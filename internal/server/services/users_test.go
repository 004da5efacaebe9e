package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/cryptox"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	repo := users.NewMemoryRepository()
	dir := NewUserDirectory(repo, cryptox.Hasher{}, logging.Discard())
	dir.newID = func() string { return "u-1" }
	dir.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	pub, err := dir.CreateUser(ctx, " alice ", "secret123", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", pub.ID)
	assert.Equal(t, "alice", pub.UserName)
	assert.Equal(t, "a@x.com", pub.Email)

	stored, err := repo.GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, stored.PasswordSalt, cryptox.SaltSize)
	assert.True(t, cryptox.VerifyPassword([]byte("secret123"), stored.PasswordDigest, stored.PasswordSalt))
	assert.NotEqual(t, []byte("secret123"), stored.PasswordDigest)
}

func TestAuthenticate_SurvivesWorkFactorChange(t *testing.T) {
	ctx := context.Background()
	repo := users.NewMemoryRepository()

	before := NewUserDirectory(repo, cryptox.Hasher{Iterations: 1000}, logging.Discard())
	pub, err := before.CreateUser(ctx, "alice", "secret123", "a@x.com")
	require.NoError(t, err)

	stored, err := repo.GetUserByID(ctx, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000, stored.PasswordIterations)

	after := NewUserDirectory(repo, cryptox.Hasher{Iterations: 5000}, logging.Discard())
	got, err := after.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, pub, got)

	_, err = after.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = after.CreateUser(ctx, "bob", "hunter22", "b@x.com")
	require.NoError(t, err)
	bob, err := repo.GetUserByLogin(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 5000, bob.PasswordIterations)

	_, err = before.Authenticate(ctx, "bob", "hunter22")
	assert.NoError(t, err, "older configuration still verifies newer digests")
}

func TestAuthenticate_LegacyRecordWithoutWorkFactor(t *testing.T) {
	ctx := context.Background()
	repo := users.NewMemoryRepository()

	digest, salt, err := cryptox.HashPassword([]byte("secret123"), nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.User{ID: "u-old", UserName: "old", Email: "o@x.com", PasswordDigest: digest, PasswordSalt: salt})
	require.NoError(t, err)

	dir := NewUserDirectory(repo, cryptox.Hasher{Iterations: 3000}, logging.Discard())
	_, err = dir.Authenticate(ctx, "old", "secret123")
	assert.NoError(t, err)
}

func TestCreateUser_DefaultIDIsUUID(t *testing.T) {
	dir := NewUserDirectory(users.NewMemoryRepository(), cryptox.Hasher{}, logging.Discard())
	pub, err := dir.CreateUser(context.Background(), "alice", "pw", "a@x.com")
	require.NoError(t, err)
	assert.Len(t, pub.ID, 36)
}

func TestCreateUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.users.CreateUser(ctx, "alice", "secret123", "a@x.com")
	require.NoError(t, err)

	_, err = f.users.CreateUser(ctx, "alice", "other", "other@x.com")
	assert.ErrorIs(t, err, common.ErrDuplicateUser)

	_, err = f.users.CreateUser(ctx, "alicia", "other", "a@x.com")
	assert.ErrorIs(t, err, common.ErrDuplicateUser, "email is unique too")

	got, err := f.users.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err, "first registration is unaffected")
	assert.Equal(t, first, got)
}

func TestCreateUser_Validation(t *testing.T) {
	f := newFixture(t)
	cases := []struct{ name, user, pass, email string }{
		{"no username", "", "pw", "a@x.com"},
		{"blank username", "   ", "pw", "a@x.com"},
		{"no password", "alice", "", "a@x.com"},
		{"blank password", "alice", "  ", "a@x.com"},
		{"no email", "alice", "pw", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.users.CreateUser(context.Background(), tc.user, tc.pass, tc.email)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.users.CreateUser(ctx, "alice", "secret123", "a@x.com")
	require.NoError(t, err)

	_, err = f.users.Authenticate(ctx, "alice", "wrongpass")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = f.users.Authenticate(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	pub, err := f.users.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", pub.UserName)
}

func TestUserDirectory_BackendFaults(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(brokenUsers{}, cryptox.Hasher{}, logging.Discard())

	_, err := dir.CreateUser(ctx, "alice", "pw", "a@x.com")
	assert.ErrorIs(t, err, common.ErrPersistence)

	_, err = dir.Authenticate(ctx, "alice", "pw")
	assert.ErrorIs(t, err, common.ErrPersistence)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	pub, err := f.users.CreateUser(ctx, "alice", "pw", "a@x.com")
	require.NoError(t, err)

	u, err := f.users.FindByID(ctx, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.UserName)

	_, err = f.users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
