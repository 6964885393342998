package story

import (
	"context"
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

func (s *Service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Story, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if fields := validator.Validate(req); fields != nil {
		return nil, apperror.Validation("invalid story", fields)
	}

	st := &Story{
		AuthorID:     actor.UserID,
		RestaurantID: req.RestaurantID,
		Title:        req.Title,
		Body:         req.Body,
		Tags:         normalizeTags(req.Tags),
		Published:    req.Published,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, apperror.Internal("failed to create story", err)
	}
	return st, nil
}

// Get hides drafts from everyone but their author and admins.
func (s *Service) Get(ctx context.Context, actor *auth.Actor, id int64) (*Story, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.Published && (actor == nil || !canEdit(*actor, st)) {
		return nil, ErrNotFound
	}
	return st, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, req UpdateRequest) (*Story, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canEdit(actor, st) {
		return nil, ErrForbidden
	}
	if fields := validator.Validate(req); fields != nil {
		return nil, apperror.Validation("invalid story", fields)
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		updates["body"] = strings.TrimSpace(*req.Body)
	}
	if req.Tags != nil {
		updates["tags"] = normalizeTags(*req.Tags)
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canEdit(actor, st) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func canEdit(actor auth.Actor, st *Story) bool {
	return actor.IsAdmin() || st.AuthorID == actor.UserID
}

func normalizeTags(in []string) Tags {
	out := make(Tags, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, tag := range in {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
