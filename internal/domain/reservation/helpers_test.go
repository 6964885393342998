package reservation

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tablehub/internal/database"
	"tablehub/internal/domain/auth"
	"tablehub/internal/domain/restaurant"
)

var testNow = time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)

const (
	ownerID    int64 = 100
	userID     int64 = 1
	otherUser  int64 = 2
	adminID    int64 = 900
	strangerID int64 = 500
)

var (
	userActor     = auth.Actor{UserID: userID, Role: auth.RoleUser}
	otherActor    = auth.Actor{UserID: otherUser, Role: auth.RoleUser}
	ownerActor    = auth.Actor{UserID: ownerID, Role: auth.RoleRestaurantOwner}
	adminActor    = auth.Actor{UserID: adminID, Role: auth.RoleAdmin}
	strangerOwner = auth.Actor{UserID: strangerID, Role: auth.RoleRestaurantOwner}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) PublishReservationEvent(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	db          *gorm.DB
	repo        *GormRepository
	restaurants *restaurant.Repository
	events      *recordingPublisher
	svc         *Service
	rest        *restaurant.Restaurant
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:reservation_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	migrateTestDB(t, db)
	return db
}

// setupFileTestDB opens a file database with the default connection pool,
// so concurrent callers race on real connections.
func setupFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect("file:" + filepath.Join(t.TempDir(), "reservations.db"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	migrateTestDB(t, db)
	return db
}

func migrateTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, restaurant.AutoMigrate(db))
	require.NoError(t, AutoMigrate(db))
}

func setupTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	return newTestEnv(t, setupTestDB(t), opts...)
}

func newTestEnv(t *testing.T, db *gorm.DB, opts ...Option) *testEnv {
	t.Helper()
	env := &testEnv{
		db:          db,
		repo:        NewRepository(db),
		restaurants: restaurant.NewRepository(db),
		events:      &recordingPublisher{},
	}
	env.rest = env.addRestaurant(t, ownerID, true)

	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	env.svc = NewService(env.repo, env.restaurants, env.events, opts...)
	return env
}

func (e *testEnv) addRestaurant(t *testing.T, owner int64, accepts bool) *restaurant.Restaurant {
	t.Helper()
	rest := &restaurant.Restaurant{OwnerID: owner, Name: "Chez Test", AcceptsReservations: accepts}
	require.NoError(t, e.restaurants.Create(context.Background(), rest))
	return rest
}

func validRequest(restaurantID int64, date, slot string) CreateRequest {
	return CreateRequest{
		RestaurantID: restaurantID,
		Date:         date,
		Time:         slot,
		PartySize:    4,
		ContactName:  "Ann Guest",
		ContactPhone: "+1 555 0100",
		ContactEmail: "ann@example.com",
	}
}

func (e *testEnv) book(t *testing.T, actor auth.Actor, date, slot string) *Reservation {
	t.Helper()
	r, err := e.svc.Create(context.Background(), actor, validRequest(e.rest.ID, date, slot))
	require.NoError(t, err)
	return r
}
