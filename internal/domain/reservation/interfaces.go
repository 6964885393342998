package reservation

import (
	"context"

	"tablehub/internal/domain/restaurant"
)

// Repository is the reservation store. Implementations must make
// CreateIfSlotFree atomic with respect to the active-slot invariant.
type Repository interface {
	HasConflict(ctx context.Context, restaurantID int64, date, slot string) (bool, error)
	// CreateIfSlotFree inserts r unless its slot is held by an active
	// reservation (ErrSlotTaken). A confirmation code collision yields errCodeTaken.
	CreateIfSlotFree(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id int64) (*Reservation, error)
	GetByCode(ctx context.Context, code string) (*Reservation, error)
	List(ctx context.Context, f ListFilter) ([]Reservation, int64, error)
	// UpdateStatus moves the row to `to` only while its status is in from.
	// It reports false when no row matched.
	UpdateStatus(ctx context.Context, id int64, from []Status, to Status, fields map[string]any) (bool, error)
	// UpdateDetails writes the non-lifecycle fields of r while its status is in from.
	UpdateDetails(ctx context.Context, r *Reservation, from []Status, recheckSlot bool) (bool, error)
	SoftDelete(ctx context.Context, id int64) error
}

type RestaurantLookup interface {
	GetByID(ctx context.Context, id int64) (*restaurant.Restaurant, error)
}
