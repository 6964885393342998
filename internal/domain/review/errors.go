package review

import "tablehub/internal/pkg/apperror"

var (
	ErrNotFound       = apperror.NotFound("review not found")
	ErrAlreadyExists  = apperror.Conflict("you have already reviewed this restaurant")
	ErrForbidden      = apperror.Forbidden("only the author or an admin may do this")
	ErrOwnerOnly      = apperror.Forbidden("only the restaurant owner may respond")
	ErrInvalidRequest = apperror.Validation("invalid request", nil)
)
