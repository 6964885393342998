package search

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"tablehub/internal/domain/event"
	"tablehub/internal/domain/restaurant"
	"tablehub/internal/domain/story"
	"tablehub/internal/pkg/apperror"
)

const (
	TypeRestaurants = "restaurants"
	TypeEvents      = "events"
	TypeStories     = "stories"

	defaultLimit = 10
	maxLimit     = 50
)

type Query struct {
	Q     string
	Type  string
	Limit int
}

type Results struct {
	Restaurants []restaurant.Restaurant `json:"restaurants,omitempty"`
	Events      []event.Event           `json:"events,omitempty"`
	Stories     []story.Story           `json:"stories,omitempty"`
}

// Service runs case-insensitive substring searches. Soft-deleted rows are
// excluded by gorm's DeletedAt scope.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Search(ctx context.Context, q Query) (*Results, error) {
	term := strings.TrimSpace(q.Q)
	if term == "" {
		return nil, apperror.Validation("search query is required", map[string]string{"q": "required"})
	}
	switch q.Type {
	case "", TypeRestaurants, TypeEvents, TypeStories:
	default:
		return nil, apperror.Validation("unknown search type", map[string]string{"type": "oneof"})
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	pattern := likePattern(term)
	db := s.db.WithContext(ctx)
	out := &Results{}

	if q.Type == "" || q.Type == TypeRestaurants {
		err := db.
			Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(cuisine) LIKE ? ESCAPE '\' OR LOWER(city) LIKE ? ESCAPE '\')`,
				pattern, pattern, pattern, pattern).
			Order("rating DESC, id ASC").
			Limit(limit).
			Find(&out.Restaurants).Error
		if err != nil {
			return nil, apperror.Internal("restaurant search failed", err)
		}
	}

	if q.Type == "" || q.Type == TypeEvents {
		err := db.
			Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern).
			Order("starts_at ASC, id ASC").
			Limit(limit).
			Find(&out.Events).Error
		if err != nil {
			return nil, apperror.Internal("event search failed", err)
		}
	}

	if q.Type == "" || q.Type == TypeStories {
		err := db.
			Where("published = ?", true).
			Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(body) LIKE ? ESCAPE '\')`, pattern, pattern).
			Order("created_at DESC, id DESC").
			Limit(limit).
			Find(&out.Stories).Error
		if err != nil {
			return nil, apperror.Internal("story search failed", err)
		}
	}

	return out, nil
}

func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
