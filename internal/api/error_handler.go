package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	// Authentication failures. Credential and PIN errors share one
	// message so responses don't reveal which factor was wrong.
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUserDisabled):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrInvalidPIN),
		errors.Is(err, domain.ErrPINNotConfigured):
		return http.StatusUnauthorized, "invalid pin"
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, "invalid or expired session"
	case errors.Is(err, domain.ErrChallengeRequired):
		return http.StatusUnauthorized, "pin verification required"
	case errors.Is(err, domain.ErrIdentityRejected):
		return http.StatusUnauthorized, "identity verification failed"
	case errors.Is(err, domain.ErrIdentityMismatch):
		return http.StatusUnauthorized, "identity account does not match"
	case errors.Is(err, domain.ErrIdentityUnavailable):
		return http.StatusBadGateway, "identity provider unavailable"

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"

	// Missing resources.
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrCourseNotFound):
		return http.StatusNotFound, "course not found"
	case errors.Is(err, domain.ErrLessonNotFound):
		return http.StatusNotFound, "lesson not found"
	case errors.Is(err, domain.ErrAttendanceNotFound):
		return http.StatusNotFound, "attendance record not found"
	case errors.Is(err, domain.ErrCompensationNotFound):
		return http.StatusNotFound, "compensation rate not found"
	case errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound, "payment not found"
	case errors.Is(err, domain.ErrPaymentRequestNotFound):
		return http.StatusNotFound, "payment request not found"
	case errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound, "notification not found"
	case errors.Is(err, domain.ErrSlotNotFound):
		return http.StatusNotFound, "lesson slot not found"
	case errors.Is(err, domain.ErrAssignmentNotFound):
		return http.StatusNotFound, "assignment not found"
	case errors.Is(err, domain.ErrDetailNotFound):
		return http.StatusNotFound, "detail record not found"

	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrSlotOverlap):
		return http.StatusConflict, "slot overlaps an existing one"

	// Validation and state errors.
	case errors.Is(err, domain.ErrRoleMismatch),
		errors.Is(err, domain.ErrPINTooShort),
		errors.Is(err, domain.ErrInvalidAttendanceStatus),
		errors.Is(err, domain.ErrInvalidPaymentStatus),
		errors.Is(err, domain.ErrSlotTimeIncomplete),
		errors.Is(err, domain.ErrStudentRequired),
		errors.Is(err, domain.ErrSlotNotAvailable),
		errors.Is(err, domain.ErrSlotNotBooked),
		errors.Is(err, domain.ErrRequestNotPending),
		errors.Is(err, domain.ErrRequestProcessed):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
