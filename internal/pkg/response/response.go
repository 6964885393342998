package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tablehub/internal/pkg/apperror"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindPolicy, apperror.KindInvalidTransition:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes the envelope for err. Internal errors are attached to the
// gin context for the request logger and reported with an opaque message.
func FromError(c *gin.Context, err error) {
	FromErrorWithStatus(c, err, StatusFor(apperror.KindOf(err)))
}

// FromErrorWithStatus is FromError with an explicit status for non-internal errors.
func FromErrorWithStatus(c *gin.Context, err error, status int) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindInternal {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	if len(appErr.Fields) > 0 {
		ErrorWithDetails(c, status, string(appErr.Kind), appErr.Message, appErr.Fields)
		return
	}
	Error(c, status, string(appErr.Kind), appErr.Message)
}
