package domain

import "time"

// User models an authenticated author. Identity comes from the external
// login provider: SlackID is unique and immutable, name and avatar are
// refreshed on every login.
type User struct {
	ID        int64     `json:"id"`
	SlackID   string    `json:"slack_id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is a server-side login session referenced by the session cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is no longer usable at t.
func (s *Session) Expired(t time.Time) bool {
	return !s.ExpiresAt.After(t)
}
