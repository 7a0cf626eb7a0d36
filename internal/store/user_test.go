package store

import (
	"context"
	"testing"

	"github.com/lostfound/apiserver/types"
	"github.com/stretchr/testify/require"
)

func TestUserCreateAndLookup(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, types.User{
		Email:        "alice@example.com",
		Name:         "Alice",
		Role:         types.RoleUser,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Email, byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, types.User{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, types.User{Email: "alice@example.com", Name: "Other Alice"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserEmailComparisonIsExact(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, types.User{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)

	// Emails are compared as stored, case-sensitively.
	_, err = repo.Create(ctx, types.User{Email: "Alice@example.com", Name: "Alice"})
	require.NoError(t, err)

	_, err = repo.GetByEmail(ctx, "ALICE@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserDeleteIsIdempotent(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, types.User{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserList(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, types.User{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, types.User{Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, err)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "alice@example.com", users[0].Email)
	require.Equal(t, "bob@example.com", users[1].Email)
}
