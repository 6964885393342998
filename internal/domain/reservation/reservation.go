package reservation

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// ActiveStatuses occupy a slot.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// ActorKind is the side of the table an actor stands on for one reservation.
type ActorKind string

const (
	ActorUser       ActorKind = "user"
	ActorRestaurant ActorKind = "restaurant"
	ActorAdmin      ActorKind = "admin"
)

const dateLayout = "2006-01-02"

type Reservation struct {
	ID                  int64      `json:"id"`
	UserID              int64      `json:"user_id"`
	RestaurantID        int64      `json:"restaurant_id"`
	Date                string     `json:"date"`
	Time                string     `json:"time"`
	PartySize           int        `json:"party_size"`
	SpecialRequests     string     `json:"special_requests,omitempty"`
	DietaryRestrictions []string   `json:"dietary_restrictions,omitempty"`
	Occasion            string     `json:"occasion,omitempty"`
	ContactName         string     `json:"contact_name"`
	ContactPhone        string     `json:"contact_phone"`
	ContactEmail        string     `json:"contact_email"`
	Status              Status     `json:"status"`
	ConfirmationCode    string     `json:"confirmation_code"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy         ActorKind  `json:"cancelled_by,omitempty"`
	CancellationReason  string     `json:"cancellation_reason,omitempty"`
	IsDeleted           bool       `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type CreateRequest struct {
	RestaurantID        int64    `json:"restaurant_id" validate:"required,gt=0"`
	Date                string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time                string   `json:"time" validate:"required,max=32"`
	PartySize           int      `json:"party_size" validate:"required,min=1,max=20"`
	SpecialRequests     string   `json:"special_requests" validate:"max=1000"`
	DietaryRestrictions []string `json:"dietary_restrictions" validate:"max=20,dive,required,max=64"`
	Occasion            string   `json:"occasion" validate:"max=64"`
	ContactName         string   `json:"contact_name" validate:"required,max=255"`
	ContactPhone        string   `json:"contact_phone" validate:"required,max=32"`
	ContactEmail        string   `json:"contact_email" validate:"required,email,max=255"`
}

func (r *CreateRequest) normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
	r.SpecialRequests = strings.TrimSpace(r.SpecialRequests)
	r.Occasion = strings.TrimSpace(r.Occasion)
	r.ContactName = strings.TrimSpace(r.ContactName)
	r.ContactPhone = strings.TrimSpace(r.ContactPhone)
	r.ContactEmail = strings.TrimSpace(r.ContactEmail)
	r.DietaryRestrictions = trimList(r.DietaryRestrictions)
}

// UpdateRequest touches only non-lifecycle fields. Nil means unchanged.
type UpdateRequest struct {
	Date                *string   `json:"date" validate:"omitnil,datetime=2006-01-02"`
	Time                *string   `json:"time" validate:"omitnil,required,max=32"`
	PartySize           *int      `json:"party_size" validate:"omitnil,min=1,max=20"`
	SpecialRequests     *string   `json:"special_requests" validate:"omitnil,max=1000"`
	DietaryRestrictions *[]string `json:"dietary_restrictions" validate:"omitnil,max=20,dive,required,max=64"`
	Occasion            *string   `json:"occasion" validate:"omitnil,max=64"`
}

func (u *UpdateRequest) normalize() {
	u.Date = trimPtr(u.Date)
	u.Time = trimPtr(u.Time)
	u.SpecialRequests = trimPtr(u.SpecialRequests)
	u.Occasion = trimPtr(u.Occasion)
	if u.DietaryRestrictions != nil {
		list := trimList(*u.DietaryRestrictions)
		u.DietaryRestrictions = &list
	}
}

// apply returns a copy of r with the normalized, validated request applied.
func (u UpdateRequest) apply(r Reservation) Reservation {
	if u.Date != nil {
		r.Date = *u.Date
	}
	if u.Time != nil {
		r.Time = *u.Time
	}
	if u.PartySize != nil {
		r.PartySize = *u.PartySize
	}
	if u.SpecialRequests != nil {
		r.SpecialRequests = *u.SpecialRequests
	}
	if u.DietaryRestrictions != nil {
		r.DietaryRestrictions = *u.DietaryRestrictions
	}
	if u.Occasion != nil {
		r.Occasion = *u.Occasion
	}
	return r
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ListFilter narrows ListForActor. Zero values mean no filter.
type ListFilter struct {
	RestaurantID int64
	Status       Status
	Date         string
	Limit        int
	Offset       int

	userID  int64
	ownerID int64
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func trimList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
