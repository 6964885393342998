package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tablehub/internal/domain/auth"
	"tablehub/internal/domain/restaurant"
	"tablehub/internal/pkg/apperror"
	"tablehub/internal/pkg/logger"
	"tablehub/internal/pkg/validator"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Service struct {
	repo        Repository
	restaurants RestaurantLookup
	events      EventPublisher
	now         func() time.Time
	newCode     func() (string, error)
}

type Option func(*Service)

// WithClock overrides the time source used for the future-date rule and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.newCode = gen }
}

func NewService(repo Repository, restaurants RestaurantLookup, events EventPublisher, opts ...Option) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	s := &Service{
		repo:        repo,
		restaurants: restaurants,
		events:      events,
		now:         time.Now,
		newCode:     GenerateCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create books a slot for actor. The returned record carries the
// confirmation code; this is the only time it is handed out unprompted.
func (s *Service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Reservation, error) {
	req.normalize()
	if fields := validator.Validate(req); fields != nil {
		return nil, apperror.Validation("invalid reservation", fields)
	}
	if err := s.ensureFuture(req.Date); err != nil {
		return nil, err
	}

	rest, err := s.restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, passOrInternal(err, "failed to load restaurant")
	}
	if !rest.AcceptsReservations {
		return nil, ErrNotAcceptingReservations
	}

	r := &Reservation{
		UserID:              actor.UserID,
		RestaurantID:        rest.ID,
		Date:                req.Date,
		Time:                req.Time,
		PartySize:           req.PartySize,
		SpecialRequests:     req.SpecialRequests,
		DietaryRestrictions: req.DietaryRestrictions,
		Occasion:            req.Occasion,
		ContactName:         req.ContactName,
		ContactPhone:        req.ContactPhone,
		ContactEmail:        req.ContactEmail,
		Status:              StatusPending,
	}

	// The retry loop lives outside the insert transaction: on PostgreSQL a
	// unique violation aborts the whole transaction.
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, apperror.Internal("failed to generate confirmation code", err)
		}
		r.ConfirmationCode = code

		err = s.repo.CreateIfSlotFree(ctx, r)
		switch {
		case err == nil:
			s.publish(ctx, EventCreated, r, rest.OwnerID)
			return r, nil
		case errors.Is(err, errCodeTaken):
			logger.Log.Debug("confirmation code collision", zap.Int("attempt", attempt+1))
			continue
		case errors.Is(err, ErrSlotTaken):
			return nil, ErrSlotTaken
		default:
			return nil, apperror.Internal("failed to create reservation", err)
		}
	}
	return nil, apperror.Internal("failed to allocate a unique confirmation code", errCodeTaken)
}

func (s *Service) Confirm(ctx context.Context, actor auth.Actor, id int64) (*Reservation, error) {
	return s.transition(ctx, actor, id, OpConfirm, "")
}

func (s *Service) Cancel(ctx context.Context, actor auth.Actor, id int64, reason string) (*Reservation, error) {
	if fields := validator.Validate(CancelRequest{Reason: reason}); fields != nil {
		return nil, apperror.Validation("invalid cancellation", fields)
	}
	return s.transition(ctx, actor, id, OpCancel, reason)
}

func (s *Service) Complete(ctx context.Context, actor auth.Actor, id int64) (*Reservation, error) {
	return s.transition(ctx, actor, id, OpComplete, "")
}

func (s *Service) MarkNoShow(ctx context.Context, actor auth.Actor, id int64) (*Reservation, error) {
	return s.transition(ctx, actor, id, OpMarkNoShow, "")
}

// transition applies op as a compare-and-swap on status. A failed swap
// leaves the row untouched and is reported against the state that won.
func (s *Service) transition(ctx context.Context, actor auth.Actor, id int64, op Operation, reason string) (*Reservation, error) {
	r, ownerID, kind, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if operatorOnly(op) && kind == ActorUser {
		return nil, ErrOperatorOnly
	}

	to, err := Next(r.Status, op)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	fields := map[string]any{}
	switch op {
	case OpConfirm:
		fields["confirmed_at"] = now
	case OpCancel:
		fields["cancelled_at"] = now
		fields["cancelled_by"] = string(kind)
		fields["cancellation_reason"] = reason
	}

	updated, err := s.repo.UpdateStatus(ctx, id, Sources(op), to, fields)
	if err != nil {
		return nil, apperror.Internal("failed to update reservation", err)
	}
	if !updated {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, passOrInternal(err, "failed to reload reservation")
		}
		if _, err := Next(current.Status, op); err != nil {
			return nil, err
		}
		return nil, apperror.Conflict("reservation was modified concurrently")
	}

	out, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, passOrInternal(err, "failed to reload reservation")
	}
	s.publish(ctx, eventFor(op), out, ownerID)
	return out, nil
}

// Update changes non-lifecycle fields of an active reservation.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, req UpdateRequest) (*Reservation, error) {
	r, ownerID, _, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !r.Status.IsActive() {
		return nil, apperror.InvalidTransition(fmt.Sprintf("cannot update a %s reservation", r.Status))
	}

	req.normalize()
	if fields := validator.Validate(&req); fields != nil {
		return nil, apperror.Validation("invalid reservation", fields)
	}
	next := req.apply(*r)

	slotChanged := next.Date != r.Date || next.Time != r.Time
	if slotChanged {
		if err := s.ensureFuture(next.Date); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateDetails(ctx, &next, ActiveStatuses, slotChanged)
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return nil, ErrSlotTaken
		}
		return nil, apperror.Internal("failed to update reservation", err)
	}
	if !updated {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, passOrInternal(err, "failed to reload reservation")
		}
		return nil, apperror.InvalidTransition(fmt.Sprintf("cannot update a %s reservation", current.Status))
	}

	out, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, passOrInternal(err, "failed to reload reservation")
	}
	s.publish(ctx, EventUpdated, out, ownerID)
	return out, nil
}

// Delete flips the soft-delete flag. The slot is released with it.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	r, ownerID, _, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return passOrInternal(err, "failed to delete reservation")
	}
	s.publish(ctx, EventDeleted, r, ownerID)
	return nil
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id int64) (*Reservation, error) {
	r, _, _, err := s.load(ctx, actor, id)
	return r, err
}

// GetByCode is the unauthenticated lookup channel.
func (s *Service) GetByCode(ctx context.Context, code string) (*Reservation, error) {
	code = normalizeCode(code)
	if !ValidCode(code) {
		return nil, ErrInvalidCode
	}
	r, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, passOrInternal(err, "failed to load reservation")
	}
	return r, nil
}

// ListForActor scopes the listing: users see their own reservations,
// operators those against restaurants they own, admins everything.
func (s *Service) ListForActor(ctx context.Context, actor auth.Actor, f ListFilter) ([]Reservation, int64, error) {
	fields := map[string]string{}
	if f.Status != "" && !f.Status.Valid() {
		fields["status"] = "oneof"
	}
	if f.Date != "" {
		if _, err := time.Parse(dateLayout, f.Date); err != nil {
			fields["date"] = "datetime"
		}
	}
	if len(fields) > 0 {
		return nil, 0, apperror.Validation("invalid filter", fields)
	}

	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	f.userID, f.ownerID = 0, 0
	switch {
	case actor.IsAdmin():
	case actor.IsRestaurantOwner():
		f.ownerID = actor.UserID
	default:
		f.userID = actor.UserID
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list reservations", err)
	}
	return items, total, nil
}

// HasConflict reports whether the slot is held by an active reservation.
func (s *Service) HasConflict(ctx context.Context, restaurantID int64, date, slot string) (bool, error) {
	return s.repo.HasConflict(ctx, restaurantID, date, slot)
}

// load fetches id and authorizes actor against it.
func (s *Service) load(ctx context.Context, actor auth.Actor, id int64) (*Reservation, int64, ActorKind, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, "", passOrInternal(err, "failed to load reservation")
	}

	ownerID, err := s.ownerOf(ctx, r.RestaurantID)
	if err != nil {
		return nil, 0, "", err
	}

	kind, ok := relation(actor, r, ownerID)
	if !ok {
		return nil, 0, "", ErrForbidden
	}
	return r, ownerID, kind, nil
}

// ownerOf returns 0 for restaurants that no longer exist; their
// reservations stay manageable by the booking user and admins.
func (s *Service) ownerOf(ctx context.Context, restaurantID int64) (int64, error) {
	rest, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, restaurant.ErrNotFound) {
			return 0, nil
		}
		return 0, apperror.Internal("failed to load restaurant", err)
	}
	return rest.OwnerID, nil
}

func (s *Service) ensureFuture(date string) error {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return apperror.Validation("invalid reservation date", map[string]string{"date": "datetime"})
	}
	if !day.After(s.now()) {
		return apperror.Validation("reservation date must be in the future", map[string]string{"date": "future"})
	}
	return nil
}

func (s *Service) publish(ctx context.Context, typ EventType, r *Reservation, ownerID int64) {
	ev := newEvent(typ, r, ownerID, s.now())
	if err := s.events.PublishReservationEvent(ctx, ev); err != nil {
		logger.Log.Warn("publish reservation event failed",
			zap.String("type", string(typ)),
			zap.Int64("reservation_id", r.ID),
			zap.Error(err),
		)
	}
}

func passOrInternal(err error, message string) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(message, err)
}
