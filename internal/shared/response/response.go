package response

import (
	"errors"
	"net/http"

	"go-accounts/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// Success writes {"success":true, ...payload} with the given status.
// Payload keys (token, user, message) sit at the top level of the body.
func Success(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes the uniform failure body {"success":false, "message":...}.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// FromError is the single boundary translator: AppError kinds map to their
// HTTP status, anything else becomes a 500 without leaking internals.
func FromError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		Error(c, appErr.HTTPStatus, appErr.Message)
		return
	}

	Error(c, http.StatusInternalServerError, apperror.ErrInternal.Message)
}
