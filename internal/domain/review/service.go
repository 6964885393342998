package review

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"tablehub/internal/domain/auth"
	"tablehub/internal/domain/restaurant"
	"tablehub/internal/pkg/apperror"
	"tablehub/internal/pkg/logger"
	"tablehub/internal/pkg/validator"
)

// RestaurantGate is the slice of the restaurant store reviews depend on.
type RestaurantGate interface {
	GetByID(ctx context.Context, id int64) (*restaurant.Restaurant, error)
	UpdateRating(ctx context.Context, id int64, average float64, count int) error
}

type Service struct {
	reviews     *ReviewRepository
	restaurants RestaurantGate
}

func NewService(reviews *ReviewRepository, restaurants RestaurantGate) *Service {
	return &Service{reviews: reviews, restaurants: restaurants}
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Review, error) {
	req.Comment = strings.TrimSpace(req.Comment)
	if fields := validator.Validate(req); fields != nil {
		return nil, apperror.Validation("invalid review", fields)
	}

	if _, err := s.restaurants.GetByID(ctx, req.RestaurantID); err != nil {
		return nil, passOrInternal(err, "failed to load restaurant")
	}

	rv := &Review{
		RestaurantID: req.RestaurantID,
		UserID:       actor.UserID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, passOrInternal(err, "failed to create review")
	}

	s.recalculate(ctx, rv.RestaurantID)
	return rv, nil
}

func (s *Service) GetByRestaurant(ctx context.Context, restaurantID int64, limit, offset int) ([]Review, error) {
	if restaurantID <= 0 {
		return nil, ErrInvalidRequest
	}
	if _, err := s.restaurants.GetByID(ctx, restaurantID); err != nil {
		return nil, passOrInternal(err, "failed to load restaurant")
	}
	out, err := s.reviews.GetByRestaurant(ctx, restaurantID, limit, offset)
	if err != nil {
		return nil, apperror.Internal("failed to list reviews", err)
	}
	return out, nil
}

// Hide removes a review from listings and from the rating.
func (s *Service) Hide(ctx context.Context, actor auth.Actor, id int64) error {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return passOrInternal(err, "failed to load review")
	}
	if !actor.IsAdmin() && rv.UserID != actor.UserID {
		return ErrForbidden
	}
	if err := s.reviews.Hide(ctx, id); err != nil {
		return passOrInternal(err, "failed to hide review")
	}

	s.recalculate(ctx, rv.RestaurantID)
	return nil
}

func (s *Service) AddOwnerResponse(ctx context.Context, actor auth.Actor, reviewID int64, req OwnerResponseRequest) (*Review, error) {
	req.Response = strings.TrimSpace(req.Response)
	if fields := validator.Validate(req); fields != nil {
		return nil, apperror.Validation("invalid response", fields)
	}

	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, passOrInternal(err, "failed to load review")
	}
	rest, err := s.restaurants.GetByID(ctx, rv.RestaurantID)
	if err != nil {
		return nil, passOrInternal(err, "failed to load restaurant")
	}
	if rest.OwnerID != actor.UserID {
		return nil, ErrOwnerOnly
	}

	updated, err := s.reviews.SetOwnerResponse(ctx, reviewID, req.Response)
	if err != nil {
		return nil, passOrInternal(err, "failed to save response")
	}
	return updated, nil
}

// recalculate stores the aggregate of the restaurant's visible reviews.
// The review write has already succeeded, so failures are only logged;
// the next write recomputes from scratch.
func (s *Service) recalculate(ctx context.Context, restaurantID int64) {
	reviews, err := s.reviews.ListActive(ctx, restaurantID)
	if err == nil {
		rating := Aggregate(reviews)
		err = s.restaurants.UpdateRating(ctx, restaurantID, rating.Average, rating.Count)
	}
	if err != nil {
		logger.Log.Error("recalculate restaurant rating failed",
			zap.Int64("restaurant_id", restaurantID),
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
