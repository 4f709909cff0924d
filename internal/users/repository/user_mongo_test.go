package repository_test

import (
	"context"
	"testing"
	"time"

	"tenniscourts/internal/testutil/mongotest"
	userserrors "tenniscourts/internal/users/errors"
	"tenniscourts/internal/users/repository"
	"tenniscourts/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMongoUserRepository(t *testing.T) {
	cfg, _ := mongotest.Setup(t)
	repo := repository.NewMongoUserRepository(cfg)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := func() *model.User {
		return &model.User{
			CustomerName: "Ana",
			Email:        "ana@example.com",
			Phone:        "987654321",
			PasswordHash: string(hash),
			CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
		}
	}

	u := user()
	require.NoError(t, repo.Create(ctx, u))
	assert.Len(t, u.ID, 24)

	assert.ErrorIs(t, repo.Create(ctx, user()), userserrors.ErrDuplicateEmail)

	exists, err := repo.ExistsByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, string(hash), found.PasswordHash)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, userserrors.ErrNotFound)
}
