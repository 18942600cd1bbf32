package ports

import (
	"context"
	"time"

	"github.com/hackclub/iplace/internal/core/domain"
)

// AuthorshipClaims is the verified payload of an authorship token.
type AuthorshipClaims struct {
	SlackID   string
	ExpiresAt time.Time
}

// AuthService handles login sessions and authorship tokens.
type AuthService interface {
	// LoginWithCode exchanges an OAuth code for a verified identity, upserts
	// the user and opens a session. Returns the user and the session id to
	// be set as cookie.
	LoginWithCode(ctx context.Context, code, redirectURI string) (*domain.User, string, error)
	// UserBySession resolves a session cookie to its user. Missing or
	// expired sessions fail with domain.ErrNotAuthenticated.
	UserBySession(ctx context.Context, sessionID string) (*domain.User, error)
	// CreateAuthorshipToken issues a short-lived token proving that a frame
	// creation request originates from the given user.
	CreateAuthorshipToken(user *domain.User) (string, error)
	// VerifyAuthorshipToken validates a token and returns its claims, or
	// domain.ErrInvalidToken.
	VerifyAuthorshipToken(token string) (*AuthorshipClaims, error)
}
