package restaurant

import (
	"time"

	"gorm.io/gorm"
)

type Restaurant struct {
	ID                  int64          `json:"id" gorm:"primaryKey"`
	OwnerID             int64          `json:"owner_id" gorm:"not null;index"`
	Name                string         `json:"name" gorm:"type:varchar(255);not null"`
	Description         string         `json:"description,omitempty" gorm:"type:text"`
	Cuisine             string         `json:"cuisine,omitempty" gorm:"type:varchar(100);index"`
	Address             string         `json:"address,omitempty" gorm:"type:varchar(500)"`
	City                string         `json:"city,omitempty" gorm:"type:varchar(100);index"`
	Phone               string         `json:"phone,omitempty" gorm:"type:varchar(32)"`
	Website             string         `json:"website,omitempty" gorm:"type:varchar(255)"`
	AcceptsReservations bool           `json:"accepts_reservations" gorm:"not null"`
	Rating              float64        `json:"rating" gorm:"not null;default:0"`
	ReviewCount         int            `json:"review_count" gorm:"not null;default:0"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Restaurant) TableName() string { return "restaurants" }

type CreateRequest struct {
	Name                string `json:"name" validate:"required,max=255"`
	Description         string `json:"description" validate:"max=5000"`
	Cuisine             string `json:"cuisine" validate:"max=100"`
	Address             string `json:"address" validate:"max=500"`
	City                string `json:"city" validate:"max=100"`
	Phone               string `json:"phone" validate:"max=32"`
	Website             string `json:"website" validate:"omitempty,url"`
	AcceptsReservations *bool  `json:"accepts_reservations"`
}

// UpdateRequest carries optional fields; nil means unchanged.
type UpdateRequest struct {
	Name                *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description         *string `json:"description" validate:"omitempty,max=5000"`
	Cuisine             *string `json:"cuisine" validate:"omitempty,max=100"`
	Address             *string `json:"address" validate:"omitempty,max=500"`
	City                *string `json:"city" validate:"omitempty,max=100"`
	Phone               *string `json:"phone" validate:"omitempty,max=32"`
	Website             *string `json:"website" validate:"omitempty,url"`
	AcceptsReservations *bool   `json:"accepts_reservations"`
}
