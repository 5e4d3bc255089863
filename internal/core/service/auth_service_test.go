package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armando/shop-api/internal/adapter/storage"
	"github.com/armando/shop-api/internal/core/domain"
)

func setupAuthService(t *testing.T) (*AuthService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := NewAuthService(store, storage.NewMemoryTokenBlacklist(), []byte("test-secret"), time.Hour)
	return svc, store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.NotEqual(t, "s3cret", u.PasswordHash, "password must be stored hashed")

	token, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ident, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, ident.UserID)
	assert.Equal(t, "alice@example.com", ident.Email)
	assert.Equal(t, domain.RoleUser, ident.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Alice", "alice@example.com", "different")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Register(context.Background(), "", "alice@example.com", "s3cret")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.Register(context.Background(), "Alice", "alice@example.com", "")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown user yields the same error so accounts cannot be enumerated.
	_, err = svc.Login(ctx, "nobody@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	svc, store := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)

	other := NewAuthService(store, storage.NewMemoryTokenBlacklist(), []byte("another-secret"), time.Hour)
	_, err = other.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
