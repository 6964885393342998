package event

import (
	"context"
	"errors"
	"strings"

	"tablehub/internal/domain/auth"
	"tablehub/internal/domain/restaurant"
	"tablehub/internal/pkg/apperror"
	"tablehub/internal/pkg/validator"
)

type RestaurantLookup interface {
	GetByID(ctx context.Context, id int64) (*restaurant.Restaurant, error)
}

type Service struct {
	repo        *Repository
	restaurants RestaurantLookup
}

func NewService(repo *Repository, restaurants RestaurantLookup) *Service {
	return &Service{repo: repo, restaurants: restaurants}
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	if fields := validator.Validate(req); fields != nil {
		return nil, apperror.Validation("invalid event", fields)
	}
	if err := s.authorizeRestaurant(ctx, actor, req.RestaurantID); err != nil {
		return nil, err
	}

	ev := &Event{
		RestaurantID: req.RestaurantID,
		OrganizerID:  actor.UserID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     strings.ToLower(strings.TrimSpace(req.Category)),
		StartsAt:     req.StartsAt.UTC(),
		EndsAt:       req.EndsAt.UTC(),
		Capacity:     req.Capacity,
	}
	if err := s.repo.Create(ctx, ev); err != nil {
		return nil, apperror.Internal("failed to create event", err)
	}
	return ev, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, req UpdateRequest) (*Event, error) {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRestaurant(ctx, actor, ev.RestaurantID); err != nil {
		return nil, err
	}
	if fields := validator.Validate(req); fields != nil {
		return nil, apperror.Validation("invalid event", fields)
	}

	starts, ends := ev.StartsAt, ev.EndsAt
	if req.StartsAt != nil {
		starts = req.StartsAt.UTC()
	}
	if req.EndsAt != nil {
		ends = req.EndsAt.UTC()
	}
	if !ends.After(starts) {
		return nil, apperror.Validation("invalid event", map[string]string{"ends_at": "gtfield"})
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.StartsAt != nil {
		updates["starts_at"] = starts
	}
	if req.EndsAt != nil {
		updates["ends_at"] = ends
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeRestaurant(ctx, actor, ev.RestaurantID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// authorizeRestaurant allows admins and the owner of restaurantID.
func (s *Service) authorizeRestaurant(ctx context.Context, actor auth.Actor, restaurantID int64) error {
	rest, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperror.Internal("failed to load restaurant", err)
	}
	if !actor.IsAdmin() && rest.OwnerID != actor.UserID {
		return ErrForbidden
	}
	return nil
}
