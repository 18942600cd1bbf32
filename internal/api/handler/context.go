package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hackclub/iplace/internal/core/domain"
)

// userContextKey is where the session middleware stores the resolved user.
const userContextKey = "user"

// currentUser extracts the authenticated user injected by the session
// middleware. Returns nil when the request carried no valid session.
func currentUser(c echo.Context) *domain.User {
	u, _ := c.Get(userContextKey).(*domain.User)
	return u
}

// requireUser is the handler-side guard for routes that must never run
// anonymously, even if the route was wired without the middleware.
func requireUser(c echo.Context) (*domain.User, error) {
	u := currentUser(c)
	if u == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return u, nil
}
