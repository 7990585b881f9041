package service

import (
	"context"
	"testing"

	"bonds/internal/auth"
	"bonds/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*UserService, *stubUserRepo) {
	t.Helper()

	hashed, err := auth.HashPassword("Sup3rSecret")
	require.NoError(t, err)

	users := &stubUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Username: "alice", Email: "alice@example.com", HashedPassword: hashed, IsActive: true},
		2: {ID: 2, Username: "bob", Email: "bob@example.com", HashedPassword: hashed, IsActive: false},
	}}
	return NewUserService(users), users
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, users := newUserFixture(t)

		user, err := svc.Register(ctx, "carol", "carol@example.com", "Sup3rSecret")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "Sup3rSecret", user.HashedPassword)
		assert.Contains(t, users.users, user.ID)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		svc, _ := newUserFixture(t)

		user, err := svc.Register(ctx, "alice2", "alice@example.com", "Sup3rSecret")
		assert.Nil(t, user)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	t.Run("Success", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "alice@example.com", "Sup3rSecret")
		require.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "ghost@example.com", "Sup3rSecret")
		assert.Nil(t, user)
		assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))
	})

	t.Run("Wrong Password", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "alice@example.com", "nope")
		assert.Nil(t, user)
		assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))
	})

	t.Run("Inactive Account", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "bob@example.com", "Sup3rSecret")
		assert.Nil(t, user)
		assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))
	})
}
