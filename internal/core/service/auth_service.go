package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackclub/iplace/internal/core/domain"
	"github.com/hackclub/iplace/internal/core/ports"
)

const (
	defaultSessionTTL = 30 * 24 * time.Hour
	defaultTokenTTL   = 12 * time.Hour
)

// AuthService handles external login, sessions and authorship tokens.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionRepository
	identity   ports.IdentityProvider
	jwtSecret  []byte
	sessionTTL time.Duration
	tokenTTL   time.Duration
	logger     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionRepository, identity ports.IdentityProvider, jwtSecret string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		identity:   identity,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: defaultSessionTTL,
		tokenTTL:   defaultTokenTTL,
		logger:     logger,
	}
}

// LoginWithCode completes the OAuth round trip: verifies the code, upserts
// the user (new users are created, returning users get their name and
// avatar refreshed) and opens a session.
func (s *AuthService) LoginWithCode(ctx context.Context, code, redirectURI string) (*domain.User, string, error) {
	id, err := s.identity.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		return nil, "", fmt.Errorf("exchange code: %w", err)
	}

	user, err := s.users.Upsert(ctx, &domain.User{
		SlackID: id.SlackID,
		Name:    id.Name,
		Avatar:  id.Avatar,
	})
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("slack_id", user.SlackID).Msg("user logged in")
	return user, session.ID, nil
}

// UserBySession resolves a session cookie to its user. Unknown or expired
// sessions fail with domain.ErrNotAuthenticated.
func (s *AuthService) UserBySession(ctx context.Context, sessionID string) (*domain.User, error) {
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, domain.ErrNotAuthenticated
	}
	if session.Expired(time.Now().UTC()) {
		return nil, domain.ErrNotAuthenticated
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		// A live session pointing at a missing user means the relational
		// invariants were violated outside this core.
		return nil, fmt.Errorf("%w: session %s refers to missing user %d", domain.ErrIntegrity, session.ID, session.UserID)
	}
	return user, nil
}

// CreateAuthorshipToken issues a short-lived HS256 token binding a frame
// creation request to the user's verified identity.
func (s *AuthService) CreateAuthorshipToken(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"slack_id": user.SlackID,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}

// VerifyAuthorshipToken validates a token and extracts its claims.
func (s *AuthService) VerifyAuthorshipToken(token string) (*ports.AuthorshipClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	slackID, _ := claims["slack_id"].(string)
	if slackID == "" {
		return nil, domain.ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, domain.ErrInvalidToken
	}

	return &ports.AuthorshipClaims{SlackID: slackID, ExpiresAt: exp.Time}, nil
}
