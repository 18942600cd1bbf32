package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hackclub/iplace/internal/core/domain"
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

	// Known domain errors map to deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrFrameNotFound):
		return http.StatusNotFound, "frame not found"
	case errors.Is(err, domain.ErrTileNotFound):
		return http.StatusNotFound, "tile not found"
	case errors.Is(err, domain.ErrPositionOccupied):
		return http.StatusConflict, "position already occupied"
	case errors.Is(err, domain.ErrNotAdjacent):
		return http.StatusConflict, "tile must touch one of the frame's tiles"
	case errors.Is(err, domain.ErrBudgetExceeded):
		return http.StatusBadRequest, "not enough approved time"
	case errors.Is(err, domain.ErrInvalidState):
		// Covers ErrFramePending and ErrAlreadyPending.
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUpstream):
		log.Error().
			Err(err).
			Str("path", c.Path()).
			Msg("upstream dependency failed")
		return http.StatusBadGateway, "upstream dependency failed"
	case errors.Is(err, domain.ErrIntegrity):
		// Stored data contradicts itself. Loud log, opaque response.
		log.Error().
			Err(err).
			Str("path", c.Path()).
			Msg("data integrity fault")
		return http.StatusInternalServerError, "internal server error"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
