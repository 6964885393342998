package story

import "tablehub/internal/pkg/apperror"

var (
	ErrNotFound  = apperror.NotFound("story not found")
	ErrForbidden = apperror.Forbidden("only the author or an admin may modify this story")
)
