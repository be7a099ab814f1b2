package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/learning-platform/internal/services"
	"github.com/campus-hub/learning-platform/internal/validator"
)

// ErrorResponse is the uniform error body for every endpoint.
type ErrorResponse struct {
	Message string      `json:"message"`
	Kind    string      `json:"kind,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// statusFor maps service error kinds onto HTTP statuses.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindDuplicate, services.KindAlreadyCompleted:
		return http.StatusConflict
	case services.KindInvalidInput, services.KindUnsupportedShape:
		return http.StatusBadRequest
	case services.KindWrongRole:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError translates a service error into the HTTP response. Validation
// errors keep their per-field details; everything else carries the service
// message only, never the wrapped cause.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Kind:    services.KindInvalidInput.String(),
			Details: ve,
		})
		return
	}

	var se *services.Error
	if errors.As(err, &se) {
		status := statusFor(se.Kind)
		if status == http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "Request failed",
				"path", c.FullPath(),
				"error", err)
		}
		c.JSON(status, ErrorResponse{
			Message: se.Message,
			Kind:    se.Kind.String(),
		})
		return
	}

	logger.ErrorContext(c.Request.Context(), "Unclassified request error",
		"path", c.FullPath(),
		"error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "internal error",
	})
}

// paramID parses a :param path segment as an entity id.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := parseUint(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "invalid " + name + " parameter",
			Kind:    services.KindInvalidInput.String(),
		})
		return 0, false
	}
	return id, true
}
