package review

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tablehub/internal/database"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	RestaurantID  int64      `gorm:"column:restaurant_id;not null;uniqueIndex:ux_reviews_user_restaurant,priority:2;index"`
	UserID        int64      `gorm:"column:user_id;not null;uniqueIndex:ux_reviews_user_restaurant,priority:1"`
	Rating        int        `gorm:"column:rating;not null"`
	Comment       *string    `gorm:"column:comment;type:text"`
	OwnerResponse *string    `gorm:"column:owner_response;type:text"`
	RespondedAt   *time.Time `gorm:"column:responded_at"`
	IsHidden      bool       `gorm:"column:is_hidden;not null;default:false"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&reviewModel{})
}

func toDomainReview(m reviewModel) Review {
	comment := ""
	if m.Comment != nil {
		comment = *m.Comment
	}
	return Review{
		ID:            m.ID,
		RestaurantID:  m.RestaurantID,
		UserID:        m.UserID,
		Rating:        m.Rating,
		Comment:       comment,
		OwnerResponse: m.OwnerResponse,
		RespondedAt:   m.RespondedAt,
		IsHidden:      m.IsHidden,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toReviewModel(r *Review) reviewModel {
	var comment *string
	if r.Comment != "" {
		v := r.Comment
		comment = &v
	}
	return reviewModel{
		ID:            r.ID,
		RestaurantID:  r.RestaurantID,
		UserID:        r.UserID,
		Rating:        r.Rating,
		Comment:       comment,
		OwnerResponse: r.OwnerResponse,
		RespondedAt:   r.RespondedAt,
		IsHidden:      r.IsHidden,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *Review) error {
	m := toReviewModel(rv)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if _, dup := database.UniqueViolation(err); dup {
			return ErrAlreadyExists
		}
		return err
	}
	*rv = toDomainReview(m)
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*Review, error) {
	var m reviewModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d := toDomainReview(m)
	return &d, nil
}

func (r *ReviewRepository) GetByRestaurant(ctx context.Context, restaurantID int64, limit, offset int) ([]Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows []reviewModel
	tx := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_hidden = ?", restaurantID, false).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainReview(m))
	}
	return out, nil
}

// ListActive returns every visible review of a restaurant, unpaginated,
// for rating recomputation.
func (r *ReviewRepository) ListActive(ctx context.Context, restaurantID int64) ([]Review, error) {
	var rows []reviewModel
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_hidden = ?", restaurantID, false).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainReview(m))
	}
	return out, nil
}

func (r *ReviewRepository) Hide(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("id = ?", id).
		Update("is_hidden", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) SetOwnerResponse(ctx context.Context, reviewID int64, response string) (*Review, error) {
	tx := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("id = ?", reviewID).
		Updates(map[string]any{
			"owner_response": response,
			"responded_at":   time.Now().UTC(),
		})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, reviewID)
}
