package review

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablehub/internal/database"
	"tablehub/internal/domain/auth"
	"tablehub/internal/domain/restaurant"
	"tablehub/internal/pkg/apperror"
)

const ownerID int64 = 100

type testEnv struct {
	svc         *Service
	restaurants *restaurant.Repository
	rest        *restaurant.Restaurant
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:review_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, restaurant.AutoMigrate(db))
	require.NoError(t, AutoMigrate(db))

	restaurants := restaurant.NewRepository(db)
	rest := &restaurant.Restaurant{OwnerID: ownerID, Name: "Bistro", AcceptsReservations: true}
	require.NoError(t, restaurants.Create(context.Background(), rest))

	return &testEnv{
		svc:         NewService(NewReviewRepository(db), restaurants),
		restaurants: restaurants,
		rest:        rest,
	}
}

func user(id int64) auth.Actor { return auth.Actor{UserID: id, Role: auth.RoleUser} }

func TestService_Create_UpdatesRating(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, user(1), CreateRequest{RestaurantID: env.rest.ID, Rating: 5, Comment: "great"})
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, user(2), CreateRequest{RestaurantID: env.rest.ID, Rating: 4})
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, user(3), CreateRequest{RestaurantID: env.rest.ID, Rating: 4})
	require.NoError(t, err)

	rest, err := env.restaurants.GetByID(ctx, env.rest.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.33, rest.Rating)
	assert.Equal(t, 3, rest.ReviewCount)
}

func TestService_Create_Validation(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.svc.Create(context.Background(), user(1), CreateRequest{RestaurantID: env.rest.ID, Rating: 6})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "max", appErr.Fields["rating"])
}

func TestService_Create_UnknownRestaurant(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.svc.Create(context.Background(), user(1), CreateRequest{RestaurantID: 9999, Rating: 3})
	assert.ErrorIs(t, err, restaurant.ErrNotFound)
}

func TestService_Create_OnePerUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, user(1), CreateRequest{RestaurantID: env.rest.ID, Rating: 3})
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, user(1), CreateRequest{RestaurantID: env.rest.ID, Rating: 5})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestService_Hide(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	low, err := env.svc.Create(ctx, user(1), CreateRequest{RestaurantID: env.rest.ID, Rating: 1})
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, user(2), CreateRequest{RestaurantID: env.rest.ID, Rating: 5})
	require.NoError(t, err)

	t.Run("stranger forbidden", func(t *testing.T) {
		assert.ErrorIs(t, env.svc.Hide(ctx, user(2), low.ID), ErrForbidden)
	})

	t.Run("admin hides and rating drops the review", func(t *testing.T) {
		require.NoError(t, env.svc.Hide(ctx, auth.Actor{UserID: 900, Role: auth.RoleAdmin}, low.ID))

		rest, err := env.restaurants.GetByID(ctx, env.rest.ID)
		require.NoError(t, err)
		assert.Equal(t, 5.0, rest.Rating)
		assert.Equal(t, 1, rest.ReviewCount)

		list, err := env.svc.GetByRestaurant(ctx, env.rest.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 5, list[0].Rating)
	})

	t.Run("missing review", func(t *testing.T) {
		assert.ErrorIs(t, env.svc.Hide(ctx, user(1), 4242), ErrNotFound)
	})
}

func TestService_AddOwnerResponse(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	rv, err := env.svc.Create(ctx, user(1), CreateRequest{RestaurantID: env.rest.ID, Rating: 2})
	require.NoError(t, err)

	_, err = env.svc.AddOwnerResponse(ctx, user(1), rv.ID, OwnerResponseRequest{Response: "thanks"})
	assert.ErrorIs(t, err, ErrOwnerOnly)

	owner := auth.Actor{UserID: ownerID, Role: auth.RoleRestaurantOwner}
	updated, err := env.svc.AddOwnerResponse(ctx, owner, rv.ID, OwnerResponseRequest{Response: "  Sorry, come back soon  "})
	require.NoError(t, err)
	require.NotNil(t, updated.OwnerResponse)
	assert.Equal(t, "Sorry, come back soon", *updated.OwnerResponse)
	assert.NotNil(t, updated.RespondedAt)
}
