package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hackclub/iplace/internal/api/middleware"
	"github.com/hackclub/iplace/internal/core/ports"
	"github.com/hackclub/iplace/pkg/logger"
)

const sessionMaxAge = 30 * 24 * time.Hour

// AuthHandler handles the OAuth callback and authorship tokens.
type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// SlackCallback handles GET /api/slack-callback. The endpoint is browser
// facing: failures redirect back to the front page with an error marker
// instead of rendering JSON.
func (h *AuthHandler) SlackCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.Redirect(http.StatusFound, "/?error=missing-code")
	}

	redirectURI := h.callbackURI(c)
	_, sessionID, err := h.auth.LoginWithCode(c.Request().Context(), code, redirectURI)
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("slack login failed")
		return c.Redirect(http.StatusFound, "/?error=token-error")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionMaxAge.Seconds()),
	})
	return c.Redirect(http.StatusFound, "/")
}

// callbackURI rebuilds the redirect URI the OAuth flow started with. Slack
// rejects the exchange when it differs from the authorize request.
func (h *AuthHandler) callbackURI(c echo.Context) string {
	origin := c.Request().Header.Get("Origin")
	if origin == "" {
		scheme := c.Scheme()
		origin = scheme + "://" + c.Request().Host
	}
	return origin + "/api/slack-callback"
}

type authorshipTokenResponse struct {
	Token     string `json:"token"`
	SlackID   string `json:"slackId"`
	ExpiresIn string `json:"expiresIn"`
}

// CreateAuthorshipToken handles POST /api/create-authorship-token. The
// token lets the external form pipeline prove who filled it in.
func (h *AuthHandler) CreateAuthorshipToken(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	token, err := h.auth.CreateAuthorshipToken(user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authorshipTokenResponse{
		Token:     token,
		SlackID:   user.SlackID,
		ExpiresIn: "12h",
	})
}
