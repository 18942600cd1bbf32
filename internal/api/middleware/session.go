package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackclub/iplace/internal/core/domain"
	"github.com/hackclub/iplace/internal/core/ports"
)

// SessionCookie is the name of the login session cookie.
const SessionCookie = "session"

// userContextKey matches the key handlers read the resolved user from.
const userContextKey = "user"

// Session resolves the session cookie into a user and injects it into the
// request context. Requests without a valid session pass through
// anonymously; routes that require a login stack RequireUser on top.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			user, err := auth.UserBySession(c.Request().Context(), cookie.Value)
			if errors.Is(err, domain.ErrNotAuthenticated) {
				// Expired or unknown session. Treat as anonymous; the
				// browser keeps the stale cookie until the next login.
				return next(c)
			}
			if err != nil {
				return err
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireUser rejects requests that did not resolve to a logged-in user.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(userContextKey).(*domain.User); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}
