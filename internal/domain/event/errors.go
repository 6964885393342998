package event

import "tablehub/internal/pkg/apperror"

var (
	ErrNotFound  = apperror.NotFound("event not found")
	ErrForbidden = apperror.Forbidden("only the restaurant owner or an admin may manage its events")
)
