package reservation

import (
	"context"
	"errors"
	"time"
)

type EventType string

const (
	EventCreated   EventType = "reservation.created"
	EventUpdated   EventType = "reservation.updated"
	EventConfirmed EventType = "reservation.confirmed"
	EventCancelled EventType = "reservation.cancelled"
	EventCompleted EventType = "reservation.completed"
	EventNoShow    EventType = "reservation.no_show"
	EventDeleted   EventType = "reservation.deleted"
)

// Event is published after every successful reservation write.
type Event struct {
	Type              EventType `json:"type"`
	ReservationID     int64     `json:"reservation_id"`
	RestaurantID      int64     `json:"restaurant_id"`
	RestaurantOwnerID int64     `json:"restaurant_owner_id"`
	UserID            int64     `json:"user_id"`
	Status            Status    `json:"status"`
	Date              string    `json:"date"`
	Time              string    `json:"time"`
	PartySize         int       `json:"party_size"`
	OccurredAt        time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, ev Event) error
}

// Publishers fans an event out to every publisher and joins their errors.
type Publishers []EventPublisher

func (p Publishers) PublishReservationEvent(ctx context.Context, ev Event) error {
	var errs []error
	for _, pub := range p {
		if pub == nil {
			continue
		}
		if err := pub.PublishReservationEvent(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type NopPublisher struct{}

func (NopPublisher) PublishReservationEvent(context.Context, Event) error { return nil }

func eventFor(op Operation) EventType {
	switch op {
	case OpConfirm:
		return EventConfirmed
	case OpCancel:
		return EventCancelled
	case OpComplete:
		return EventCompleted
	default:
		return EventNoShow
	}
}

func newEvent(typ EventType, r *Reservation, ownerID int64, at time.Time) Event {
	return Event{
		Type:              typ,
		ReservationID:     r.ID,
		RestaurantID:      r.RestaurantID,
		RestaurantOwnerID: ownerID,
		UserID:            r.UserID,
		Status:            r.Status,
		Date:              r.Date,
		Time:              r.Time,
		PartySize:         r.PartySize,
		OccurredAt:        at.UTC(),
	}
}
