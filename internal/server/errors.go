package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventbuddy/backend/internal/policy"
)

// ErrorResponse is the JSON error payload: a stable machine code plus a
// human message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, policy.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "permission_denied",
			Message: "You are not allowed to perform this action",
		})
	case policy.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case policy.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case policy.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case policy.IsInvalidState(err):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "invalid_state",
			Message: err.Error(),
		})
	default:
		slog.Error("Unhandled error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal",
			Message: "Internal server error",
		})
	}
}

// writeBindError rejects a request whose body failed JSON binding.
func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}
