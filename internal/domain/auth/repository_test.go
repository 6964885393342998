package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tablehub/internal/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := &User{Email: " Ann@Example.com ", PasswordHash: "x", Role: RoleUser, Name: "Ann"}
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	got, err := repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, byID.Role)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &User{Email: "dup@example.com", PasswordHash: "x", Role: RoleUser}))
	err := repo.Create(ctx, &User{Email: "DUP@example.com", PasswordHash: "y", Role: RoleAdmin})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestUserRepository_InvalidRoleAndMissing(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	assert.ErrorIs(t, repo.Create(ctx, &User{Email: "x@example.com", Role: "client"}), ErrInvalidRole)

	_, err := repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
