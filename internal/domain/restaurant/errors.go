package restaurant

import "tablehub/internal/pkg/apperror"

var (
	ErrNotFound  = apperror.NotFound("restaurant not found")
	ErrForbidden = apperror.Forbidden("only the restaurant owner or an admin may do this")
)
