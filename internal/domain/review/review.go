package review

import "time"

type Review struct {
	ID            int64      `json:"id"`
	RestaurantID  int64      `json:"restaurant_id"`
	UserID        int64      `json:"user_id"`
	Rating        int        `json:"rating"`
	Comment       string     `json:"comment,omitempty"`
	OwnerResponse *string    `json:"owner_response,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	IsHidden      bool       `json:"is_hidden"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateRequest struct {
	RestaurantID int64  `json:"restaurant_id" validate:"required,gt=0"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Comment      string `json:"comment" validate:"max=2000"`
}

type OwnerResponseRequest struct {
	Response string `json:"response" validate:"required,max=2000"`
}
