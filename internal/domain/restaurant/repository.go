package restaurant

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Restaurant{})
}

func (r *Repository) Create(ctx context.Context, rest *Restaurant) error {
	return r.db.WithContext(ctx).Create(rest).Error
}

// GetByID returns ErrNotFound for missing and soft-deleted restaurants.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Restaurant, error) {
	var rest Restaurant
	if err := r.db.WithContext(ctx).First(&rest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rest, nil
}

func (r *Repository) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).Model(&Restaurant{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&Restaurant{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRating stores a recomputed aggregate.
func (r *Repository) UpdateRating(ctx context.Context, id int64, average float64, count int) error {
	return r.db.WithContext(ctx).
		Model(&Restaurant{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": average, "review_count": count}).Error
}

// ListByOwner excludes soft-deleted restaurants.
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]Restaurant, error) {
	var out []Restaurant
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
