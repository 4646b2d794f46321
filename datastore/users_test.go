package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterStoresPasswordVerbatimByDefault(t *testing.T) {
	repo := NewUserRepository(newTestStore(t), nil)

	user, err := repo.Register(context.Background(), "a@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)
	assert.Equal(t, "hunter2", user.Password)
	assert.NotZero(t, user.ID)
}

func TestRegisterValidation(t *testing.T) {
	repo := NewUserRepository(newTestStore(t), nil)

	tests := []struct {
		name, email, password string
	}{
		{"missing email", "", "pw"},
		{"blank email", "  ", "pw"},
		{"missing password", "a@example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Register(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestStore(t), nil)
	ctx := context.Background()

	first, err := repo.Register(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	_, err = repo.Register(ctx, "a@example.com", "other")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Emails are matched exactly, so a different case is a different account.
	second, err := repo.Register(ctx, "A@example.com", "pw")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestLogin(t *testing.T) {
	repo := NewUserRepository(newTestStore(t), nil)
	ctx := context.Background()

	registered, err := repo.Register(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	user, err := repo.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = repo.Login(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = repo.Login(ctx, "nobody@example.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBcryptPasswords(t *testing.T) {
	repo := NewUserRepository(newTestStore(t), BcryptPasswords{Cost: 4})
	ctx := context.Background()

	user, err := repo.Register(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", user.Password)
	assert.True(t, isBcryptHash(user.Password))

	_, err = repo.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	_, err = repo.Login(ctx, "a@example.com", user.Password)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "the stored hash itself must not log in")
}

func TestPlaintextAccountsSurviveHashingSwitch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := NewUserRepository(s, nil).Register(ctx, "old@example.com", "pw")
	require.NoError(t, err)

	_, err = NewUserRepository(s, BcryptPasswords{Cost: 4}).Login(ctx, "old@example.com", "pw")
	assert.NoError(t, err)
}

func TestFindByEmail(t *testing.T) {
	repo := NewUserRepository(newTestStore(t), nil)
	ctx := context.Background()

	_, err := repo.Register(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	user, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)

	user, err = repo.FindByEmail(ctx, "A@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)

	_, err = repo.FindByEmail(ctx, "b@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
