package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hackclub/iplace/internal/core/domain"
	"github.com/hackclub/iplace/internal/core/ports"
)

type stubAuth struct {
	users map[string]*domain.User
}

func (a *stubAuth) LoginWithCode(context.Context, string, string) (*domain.User, string, error) {
	return nil, "", domain.ErrUpstream
}

func (a *stubAuth) UserBySession(_ context.Context, sessionID string) (*domain.User, error) {
	if u, ok := a.users[sessionID]; ok {
		return u, nil
	}
	return nil, domain.ErrNotAuthenticated
}

func (a *stubAuth) CreateAuthorshipToken(*domain.User) (string, error) {
	return "", domain.ErrInvalidToken
}

func (a *stubAuth) VerifyAuthorshipToken(string) (*ports.AuthorshipClaims, error) {
	return nil, domain.ErrInvalidToken
}

func request(t *testing.T, auth ports.AuthService, cookie string, protected bool) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error {
		if u, ok := c.Get("user").(*domain.User); ok {
			return c.String(http.StatusOK, u.SlackID)
		}
		return c.String(http.StatusOK, "anonymous")
	}
	if protected {
		h = RequireUser()(h)
	}
	if err := Session(auth)(h)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestSession_InjectsUser(t *testing.T) {
	auth := &stubAuth{users: map[string]*domain.User{
		"sess-1": {ID: 1, SlackID: "U123"},
	}}

	rec := request(t, auth, "sess-1", false)
	if rec.Code != http.StatusOK || rec.Body.String() != "U123" {
		t.Fatalf("expected resolved user, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestSession_UnknownCookieIsAnonymous(t *testing.T) {
	auth := &stubAuth{users: map[string]*domain.User{}}

	rec := request(t, auth, "stale", false)
	if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
		t.Fatalf("stale session should pass through anonymously, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequireUser_RejectsAnonymous(t *testing.T) {
	auth := &stubAuth{users: map[string]*domain.User{}}

	rec := request(t, auth, "", true)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireUser_PassesAuthenticated(t *testing.T) {
	auth := &stubAuth{users: map[string]*domain.User{
		"sess-1": {ID: 1, SlackID: "U123"},
	}}

	rec := request(t, auth, "sess-1", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
