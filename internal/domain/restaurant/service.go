package restaurant

import (
	"context"
	"errors"
	"strings"

	"tablehub/internal/domain/auth"
	"tablehub/internal/pkg/apperror"
	"tablehub/internal/pkg/validator"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Restaurant, error) {
	if !actor.IsRestaurantOwner() && !actor.IsAdmin() {
		return nil, apperror.Forbidden("only restaurant owners can create restaurants")
	}
	if fields := validator.Validate(req); fields != nil {
		return nil, apperror.Validation("invalid restaurant", fields)
	}

	accepts := true
	if req.AcceptsReservations != nil {
		accepts = *req.AcceptsReservations
	}

	rest := &Restaurant{
		OwnerID:             actor.UserID,
		Name:                strings.TrimSpace(req.Name),
		Description:         req.Description,
		Cuisine:             req.Cuisine,
		Address:             req.Address,
		City:                req.City,
		Phone:               req.Phone,
		Website:             req.Website,
		AcceptsReservations: accepts,
	}
	if err := s.repo.Create(ctx, rest); err != nil {
		return nil, apperror.Internal("failed to create restaurant", err)
	}
	return rest, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Restaurant, error) {
	rest, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, passOrInternal(err, "failed to load restaurant")
	}
	return rest, nil
}

// ListMine returns the restaurants actor operates, soft-deleted ones excluded.
func (s *Service) ListMine(ctx context.Context, actor auth.Actor) ([]Restaurant, error) {
	if !actor.IsRestaurantOwner() && !actor.IsAdmin() {
		return nil, apperror.Forbidden("only restaurant owners have restaurants")
	}
	out, err := s.repo.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.Internal("failed to list restaurants", err)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, req UpdateRequest) (*Restaurant, error) {
	rest, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if fields := validator.Validate(req); fields != nil {
		return nil, apperror.Validation("invalid restaurant", fields)
	}

	updates := map[string]any{}
	setString(updates, "name", req.Name)
	setString(updates, "description", req.Description)
	setString(updates, "cuisine", req.Cuisine)
	setString(updates, "address", req.Address)
	setString(updates, "city", req.City)
	setString(updates, "phone", req.Phone)
	setString(updates, "website", req.Website)
	if req.AcceptsReservations != nil {
		updates["accepts_reservations"] = *req.AcceptsReservations
	}

	if err := s.repo.Update(ctx, rest.ID, updates); err != nil {
		return nil, passOrInternal(err, "failed to update restaurant")
	}
	return s.Get(ctx, rest.ID)
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return passOrInternal(err, "failed to delete restaurant")
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, actor auth.Actor, id int64) (*Restaurant, error) {
	rest, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && rest.OwnerID != actor.UserID {
		return nil, ErrForbidden
	}
	return rest, nil
}

func setString(updates map[string]any, column string, v *string) {
	if v != nil {
		updates[column] = strings.TrimSpace(*v)
	}
}

func passOrInternal(err error, message string) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(message, err)
}
