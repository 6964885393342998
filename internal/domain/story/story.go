package story

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Story is a community post, optionally about a restaurant.
type Story struct {
	ID           int64          `json:"id" gorm:"primaryKey"`
	AuthorID     int64          `json:"author_id" gorm:"not null;index"`
	RestaurantID *int64         `json:"restaurant_id,omitempty" gorm:"index"`
	Title        string         `json:"title" gorm:"type:varchar(255);not null"`
	Body         string         `json:"body" gorm:"type:text;not null"`
	Tags         Tags           `json:"tags" gorm:"type:text"`
	Published    bool           `json:"published" gorm:"not null;index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Story) TableName() string { return "stories" }

// Tags is stored as a JSON array in a text column.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("story: cannot scan %T into Tags", src)
	}
	if len(raw) == 0 {
		*t = Tags{}
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(t))
}

type CreateRequest struct {
	RestaurantID *int64   `json:"restaurant_id" validate:"omitempty,gt=0"`
	Title        string   `json:"title" validate:"required,max=255"`
	Body         string   `json:"body" validate:"required,max=20000"`
	Tags         []string `json:"tags" validate:"max=10,dive,min=1,max=32"`
	Published    bool     `json:"published"`
}

type UpdateRequest struct {
	Title     *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Body      *string   `json:"body" validate:"omitempty,min=1,max=20000"`
	Tags      *[]string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=32"`
	Published *bool     `json:"published"`
}
