package reservation

import (
	"errors"

	"tablehub/internal/pkg/apperror"
)

var (
	ErrNotFound                 = apperror.NotFound("reservation not found")
	ErrSlotTaken                = apperror.Conflict("slot already booked")
	ErrNotAcceptingReservations = apperror.Policy("restaurant does not accept reservations")
	ErrForbidden                = apperror.Forbidden("not allowed to manage this reservation")
	ErrOperatorOnly             = apperror.Forbidden("only the restaurant operator or an admin may do this")
	ErrInvalidCode              = apperror.Validation("invalid confirmation code", map[string]string{"code": "format"})

	errCodeTaken  = errors.New("confirmation code already in use")
	errNotUpdated = errors.New("no row matched")
)
