package event

import (
	"time"

	"gorm.io/gorm"
)

// Event is a cultural event hosted at a restaurant.
type Event struct {
	ID           int64          `json:"id" gorm:"primaryKey"`
	RestaurantID int64          `json:"restaurant_id" gorm:"not null;index"`
	OrganizerID  int64          `json:"organizer_id" gorm:"not null;index"`
	Title        string         `json:"title" gorm:"type:varchar(255);not null"`
	Description  string         `json:"description,omitempty" gorm:"type:text"`
	Category     string         `json:"category,omitempty" gorm:"type:varchar(50);index"`
	StartsAt     time.Time      `json:"starts_at" gorm:"not null;index"`
	EndsAt       time.Time      `json:"ends_at" gorm:"not null"`
	Capacity     int            `json:"capacity" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Event) TableName() string { return "events" }

type CreateRequest struct {
	RestaurantID int64     `json:"restaurant_id" validate:"required,gt=0"`
	Title        string    `json:"title" validate:"required,max=255"`
	Description  string    `json:"description" validate:"max=5000"`
	Category     string    `json:"category" validate:"max=50"`
	StartsAt     time.Time `json:"starts_at" validate:"required"`
	EndsAt       time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Capacity     int       `json:"capacity" validate:"min=0,max=10000"`
}

type UpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Category    *string    `json:"category" validate:"omitempty,max=50"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Capacity    *int       `json:"capacity" validate:"omitempty,min=0,max=10000"`
}
