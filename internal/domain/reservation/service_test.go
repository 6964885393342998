package reservation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablehub/internal/domain/auth"
	"tablehub/internal/pkg/apperror"
)

func TestCreate_DistinctSlotsYieldUniqueCodes(t *testing.T) {
	env := setupTestEnv(t)

	seen := map[string]bool{}
	for i := 0; i < 12; i++ {
		r := env.book(t, userActor, "2025-12-01", fmt.Sprintf("%02d:00", 10+i))

		assert.Equal(t, StatusPending, r.Status)
		assert.Regexp(t, `^[A-Z0-9]{6}$`, r.ConfirmationCode)
		assert.False(t, seen[r.ConfirmationCode], "duplicate code %s", r.ConfirmationCode)
		seen[r.ConfirmationCode] = true
	}
}

func TestCreate_SameSlotConflictsForAnyUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.book(t, userActor, "2025-12-01", "19:00")

	for _, actor := range []auth.Actor{userActor, otherActor, ownerActor} {
		_, err := env.svc.Create(ctx, actor, validRequest(env.rest.ID, "2025-12-01", "19:00"))
		require.Error(t, err)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		assert.ErrorIs(t, err, ErrSlotTaken)
	}

	// Exact string match only: a different label is a different slot.
	_, err := env.svc.Create(ctx, otherActor, validRequest(env.rest.ID, "2025-12-01", "19:00 "))
	require.Error(t, err, "time is trimmed before comparison")
	env.book(t, otherActor, "2025-12-01", "19:30")
	env.book(t, otherActor, "2025-12-02", "19:00")
}

func TestCreate_SlotReleasedByTerminalStatesAndDelete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	release := map[string]func(id int64) error{
		"cancel": func(id int64) error {
			_, err := env.svc.Cancel(ctx, userActor, id, "")
			return err
		},
		"complete": func(id int64) error {
			_, err := env.svc.Complete(ctx, ownerActor, id)
			return err
		},
		"no_show": func(id int64) error {
			_, err := env.svc.MarkNoShow(ctx, ownerActor, id)
			return err
		},
		"delete": func(id int64) error {
			return env.svc.Delete(ctx, userActor, id)
		},
	}

	for name, fn := range release {
		slot := "20:00 " + name
		first := env.book(t, userActor, "2025-12-05", slot)
		require.NoError(t, fn(first.ID), name)

		taken, err := env.svc.HasConflict(ctx, env.rest.ID, "2025-12-05", slot)
		require.NoError(t, err)
		assert.False(t, taken, name)

		second := env.book(t, otherActor, "2025-12-05", slot)
		assert.NotEqual(t, first.ConfirmationCode, second.ConfirmationCode)
	}
}

func TestLifecycle_CancelIsTerminal(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	r := env.book(t, userActor, "2025-12-01", "19:00")

	_, err := env.svc.Confirm(ctx, ownerActor, r.ID)
	require.NoError(t, err)
	_, err = env.svc.Cancel(ctx, userActor, r.ID, "plans changed")
	require.NoError(t, err)

	_, err = env.svc.Confirm(ctx, ownerActor, r.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))

	_, err = env.svc.Cancel(ctx, userActor, r.ID, "again")
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestLifecycle_FailedTransitionLeavesRowUntouched(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	r := env.book(t, userActor, "2025-12-01", "19:00")

	confirmed, err := env.svc.Confirm(ctx, ownerActor, r.ID)
	require.NoError(t, err)

	_, err = env.svc.Confirm(ctx, ownerActor, r.ID)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	after, err := env.svc.Get(ctx, userActor, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, after.Status)
	require.NotNil(t, after.ConfirmedAt)
	assert.True(t, confirmed.ConfirmedAt.Equal(*after.ConfirmedAt))
	assert.Nil(t, after.CancelledAt)
}

func TestCreate_RejectsTodayAndPastDates(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	for _, date := range []string{"2025-11-01", "2025-10-31", "2020-01-01"} {
		_, err := env.svc.Create(ctx, userActor, validRequest(env.rest.ID, date, "19:00"))
		require.Error(t, err, date)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err), date)
	}

	env.book(t, userActor, "2025-11-02", "19:00")
}

func TestCreate_ConcurrentSameSlotOnlyOneWins(t *testing.T) {
	env := newTestEnv(t, setupFileTestDB(t))
	ctx := context.Background()

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			<-start
			_, err := env.svc.Create(ctx, auth.Actor{UserID: uid, Role: auth.RoleUser}, validRequest(env.rest.ID, "2025-12-24", "20:00"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperror.Is(err, apperror.KindConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}(int64(i + 1))
	}
	close(start)
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	var active int64
	require.NoError(t, env.db.Model(&reservationModel{}).
		Where("restaurant_id = ? AND reservation_date = ? AND reservation_time = ?", env.rest.ID, "2025-12-24", "20:00").
		Where("status IN ? AND is_deleted = ?", statusStrings(ActiveStatuses), false).
		Count(&active).Error)
	assert.Equal(t, int64(1), active)
}

func TestScenario_BookConfirmCancelRebook(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	r, err := env.svc.Create(ctx, userActor, validRequest(env.rest.ID, "2025-12-01", "19:00"))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, 4, r.PartySize)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, r.ConfirmationCode)

	confirmed, err := env.svc.Confirm(ctx, ownerActor, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)

	cancelled, err := env.svc.Cancel(ctx, userActor, r.ID, "change of plans")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, ActorUser, cancelled.CancelledBy)
	assert.Equal(t, "change of plans", cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancelledAt)

	again, err := env.svc.Create(ctx, otherActor, validRequest(env.rest.ID, "2025-12-01", "19:00"))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, again.Status)

	assert.Equal(t, []EventType{EventCreated, EventConfirmed, EventCancelled, EventCreated}, env.events.types())
	assert.Equal(t, ownerID, env.events.events[0].RestaurantOwnerID)
}

func TestCreate_RestaurantRules(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	closed := env.addRestaurant(t, ownerID, false)
	_, err := env.svc.Create(ctx, userActor, validRequest(closed.ID, "2025-12-01", "19:00"))
	assert.Equal(t, apperror.KindPolicy, apperror.KindOf(err))

	_, err = env.svc.Create(ctx, userActor, validRequest(9999, "2025-12-01", "19:00"))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	gone := env.addRestaurant(t, ownerID, true)
	require.NoError(t, env.restaurants.Delete(ctx, gone.ID))
	_, err = env.svc.Create(ctx, userActor, validRequest(gone.ID, "2025-12-01", "19:00"))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreate_ValidationDetails(t *testing.T) {
	env := setupTestEnv(t)

	req := validRequest(env.rest.ID, "01/12/2025", "  ")
	req.PartySize = 21
	req.ContactEmail = "nope"
	req.ContactName = ""

	_, err := env.svc.Create(context.Background(), userActor, req)
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, "datetime", appErr.Fields["date"])
	assert.Equal(t, "required", appErr.Fields["time"])
	assert.Equal(t, "max", appErr.Fields["party_size"])
	assert.Equal(t, "email", appErr.Fields["contact_email"])
	assert.Equal(t, "required", appErr.Fields["contact_name"])
}

func TestCreate_RetriesOnCodeCollision(t *testing.T) {
	codes := []string{"AAAAAA", "AAAAAA", "AAAAAA", "BBBBBB"}
	var mu sync.Mutex
	gen := func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		c := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return c, nil
	}
	env := setupTestEnv(t, WithCodeGenerator(gen))

	first := env.book(t, userActor, "2025-12-01", "18:00")
	second := env.book(t, userActor, "2025-12-01", "19:00")

	assert.Equal(t, "AAAAAA", first.ConfirmationCode)
	assert.Equal(t, "BBBBBB", second.ConfirmationCode)
}

func TestCreate_GivesUpAfterRepeatedCollisions(t *testing.T) {
	env := setupTestEnv(t, WithCodeGenerator(func() (string, error) { return "ZZZZZZ", nil }))
	env.book(t, userActor, "2025-12-01", "18:00")

	_, err := env.svc.Create(context.Background(), userActor, validRequest(env.rest.ID, "2025-12-01", "19:00"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestAuthorization(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	r := env.book(t, userActor, "2025-12-01", "19:00")

	_, err := env.svc.Get(ctx, otherActor, r.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.svc.Cancel(ctx, strangerOwner, r.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.Confirm(ctx, userActor, r.ID)
	assert.ErrorIs(t, err, ErrOperatorOnly)

	_, err = env.svc.Get(ctx, ownerActor, r.ID)
	assert.NoError(t, err)
	_, err = env.svc.Confirm(ctx, adminActor, r.ID)
	assert.NoError(t, err)

	cancelled, err := env.svc.Cancel(ctx, ownerActor, r.ID, "kitchen closed")
	require.NoError(t, err)
	assert.Equal(t, ActorRestaurant, cancelled.CancelledBy)

	_, err = env.svc.Get(ctx, userActor, 424242)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUpdate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	a := env.book(t, userActor, "2025-12-01", "19:00")
	b := env.book(t, otherActor, "2025-12-01", "20:00")

	size := 6
	note := "window seat"
	updated, err := env.svc.Update(ctx, userActor, a.ID, UpdateRequest{PartySize: &size, SpecialRequests: &note})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.PartySize)
	assert.Equal(t, "window seat", updated.SpecialRequests)
	assert.Equal(t, a.ConfirmationCode, updated.ConfirmationCode)

	taken := "20:00"
	_, err = env.svc.Update(ctx, userActor, a.ID, UpdateRequest{Time: &taken})
	assert.ErrorIs(t, err, ErrSlotTaken)

	past := "2025-10-01"
	_, err = env.svc.Update(ctx, userActor, a.ID, UpdateRequest{Date: &past})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	tooMany := 30
	_, err = env.svc.Update(ctx, userActor, a.ID, UpdateRequest{PartySize: &tooMany})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	moved := "2025-12-02"
	updated, err = env.svc.Update(ctx, userActor, a.ID, UpdateRequest{Date: &moved, Time: &taken})
	require.NoError(t, err)
	assert.Equal(t, "2025-12-02", updated.Date)

	// The old slot is free again.
	env.book(t, otherActor, "2025-12-01", "19:00")

	_, err = env.svc.Cancel(ctx, otherActor, b.ID, "")
	require.NoError(t, err)
	_, err = env.svc.Update(ctx, otherActor, b.ID, UpdateRequest{PartySize: &size})
	assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))
}

func TestUpdate_ValidatesLikeCreate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	r := env.book(t, userActor, "2025-12-01", "19:00")

	long := []string{strings.Repeat("x", 200)}
	req := validRequest(env.rest.ID, "2025-12-03", "19:00")
	req.DietaryRestrictions = long
	_, err := env.svc.Create(ctx, userActor, req)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = env.svc.Update(ctx, userActor, r.ID, UpdateRequest{DietaryRestrictions: &long})
	require.Error(t, err)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, "max", appErr.Fields["dietary_restrictions[0]"])

	blank := "   "
	_, err = env.svc.Update(ctx, userActor, r.ID, UpdateRequest{Time: &blank})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "required", appErr.Fields["time"])

	badDate := "01/12/2025"
	_, err = env.svc.Update(ctx, userActor, r.ID, UpdateRequest{Date: &badDate})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "datetime", appErr.Fields["date"])

	stored, err := env.svc.Get(ctx, userActor, r.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.DietaryRestrictions)
	assert.Equal(t, "19:00", stored.Time)

	diet := []string{" vegan ", "", "nut-free"}
	updated, err := env.svc.Update(ctx, userActor, r.ID, UpdateRequest{DietaryRestrictions: &diet})
	require.NoError(t, err)
	assert.Equal(t, []string{"vegan", "nut-free"}, updated.DietaryRestrictions)
}

func TestGetByCode(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	r := env.book(t, userActor, "2025-12-01", "19:00")

	got, err := env.svc.GetByCode(ctx, " "+strings.ToLower(r.ConfirmationCode)+" ")
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	_, err = env.svc.GetByCode(ctx, "abc")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = env.svc.GetByCode(ctx, "000000")
	if r.ConfirmationCode != "000000" {
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	}

	require.NoError(t, env.svc.Delete(ctx, userActor, r.ID))
	_, err = env.svc.GetByCode(ctx, r.ConfirmationCode)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestListForActor_Scoping(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	other := env.addRestaurant(t, strangerID, true)

	env.book(t, userActor, "2025-12-01", "18:00")
	env.book(t, userActor, "2025-12-02", "18:00")
	env.book(t, otherActor, "2025-12-01", "19:00")
	_, err := env.svc.Create(ctx, userActor, validRequest(other.ID, "2025-12-01", "18:00"))
	require.NoError(t, err)

	mine, total, err := env.svc.ListForActor(ctx, userActor, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, r := range mine {
		assert.Equal(t, userID, r.UserID)
	}

	operated, total, err := env.svc.ListForActor(ctx, ownerActor, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, r := range operated {
		assert.Equal(t, env.rest.ID, r.RestaurantID)
	}

	_, total, err = env.svc.ListForActor(ctx, adminActor, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	byDate, total, err := env.svc.ListForActor(ctx, adminActor, ListFilter{Date: "2025-12-01", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, byDate, 2)

	_, _, err = env.svc.ListForActor(ctx, adminActor, ListFilter{Status: "archived"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestRepository_UniqueIndexIsAuthoritative(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	base := reservationModel{
		UserID: userID, RestaurantID: env.rest.ID, Date: "2025-12-01", Time: "19:00",
		PartySize: 2, ContactName: "A", ContactPhone: "1", ContactEmail: "a@example.com",
		Status: string(StatusPending), ConfirmationCode: "AAAAAA",
	}
	require.NoError(t, env.db.WithContext(ctx).Create(&base).Error)

	dup := base
	dup.ID = 0
	dup.ConfirmationCode = "BBBBBB"
	err := env.db.WithContext(ctx).Create(&dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, classifyWriteError(err), ErrSlotTaken)

	sameCode := base
	sameCode.ID = 0
	sameCode.Time = "21:00"
	err = env.db.WithContext(ctx).Create(&sameCode).Error
	require.Error(t, err)
	assert.ErrorIs(t, classifyWriteError(err), errCodeTaken)

	cancelled := dup
	cancelled.ID = 0
	cancelled.Status = string(StatusCancelled)
	require.NoError(t, env.db.WithContext(ctx).Create(&cancelled).Error, "inactive rows do not hold the slot")
}
