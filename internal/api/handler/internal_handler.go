package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hackclub/iplace/internal/core/ports"
)

// InternalHandler serves the automation boundary (review tooling and
// scripts). Every request authenticates with a shared secret carried in
// the body. The body is validated before the secret is checked, so a
// malformed request is reported as such even with a bad secret.
type InternalHandler struct {
	secret string
	frames ports.FrameService
	tiles  ports.TileService
	auth   ports.AuthService
}

func NewInternalHandler(secret string, frames ports.FrameService, tiles ports.TileService, auth ports.AuthService) *InternalHandler {
	return &InternalHandler{secret: secret, frames: frames, tiles: tiles, auth: auth}
}

// authorize checks the shared secret in constant time. A server with no
// configured secret rejects everything rather than accepting everything.
func (h *InternalHandler) authorize(provided string) error {
	if h.secret == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "internal endpoints are not configured")
	}
	if subtle.ConstantTimeCompare([]byte(h.secret), []byte(provided)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid secret")
	}
	return nil
}

func (h *InternalHandler) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

type createFrameRequest struct {
	Secret          string `json:"secret" validate:"required"`
	URL             string `json:"url" validate:"required,url"`
	AuthorshipToken string `json:"authorshipToken" validate:"required"`
	ProjectNames    string `json:"projectNames" validate:"required"`
	TrackerRecordID string `json:"trackerRecordId"`
}

type internalFrame struct {
	ID           int64  `json:"id"`
	URL          string `json:"url"`
	OwnerID      int64  `json:"ownerId"`
	IsPending    bool   `json:"isPending"`
	ApprovedTime *int64 `json:"approvedTime,omitempty"`
	ProjectNames string `json:"projectNames"`
}

type internalFrameResponse struct {
	Success bool          `json:"success"`
	Frame   internalFrame `json:"frame"`
}

// CreateFrame handles POST /api/internal/create-frame. The authorship
// token, not the secret, decides who the frame belongs to.
func (h *InternalHandler) CreateFrame(c echo.Context) error {
	var req createFrameRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.authorize(req.Secret); err != nil {
		return err
	}

	claims, err := h.auth.VerifyAuthorshipToken(req.AuthorshipToken)
	if err != nil {
		return err
	}

	frame, err := h.frames.Create(c.Request().Context(), ports.CreateFrameInput{
		SlackID:         claims.SlackID,
		URL:             req.URL,
		ProjectNames:    req.ProjectNames,
		TrackerRecordID: req.TrackerRecordID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, internalFrameResponse{
		Success: true,
		Frame: internalFrame{
			ID:           frame.ID,
			URL:          frame.URL,
			OwnerID:      frame.OwnerID,
			IsPending:    frame.IsPending,
			ProjectNames: frame.ProjectNames,
		},
	})
}

type approveFrameRequest struct {
	Secret string `json:"secret" validate:"required"`
	URL    string `json:"url" validate:"required,url"`
}

// ApproveFrame handles POST /api/internal/approve-frame. The balance is
// recomputed from the work source on every call.
func (h *InternalHandler) ApproveFrame(c echo.Context) error {
	var req approveFrameRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.authorize(req.Secret); err != nil {
		return err
	}

	frame, err := h.frames.Approve(c.Request().Context(), req.URL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, internalFrameResponse{
		Success: true,
		Frame: internalFrame{
			ID:           frame.ID,
			URL:          frame.URL,
			OwnerID:      frame.OwnerID,
			IsPending:    frame.IsPending,
			ApprovedTime: frame.ApprovedTime,
			ProjectNames: frame.ProjectNames,
		},
	})
}

type placePendingTileRequest struct {
	Secret  string `json:"secret" validate:"required"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	FrameID int64  `json:"frameId" validate:"required,gt=0"`
}

type pendingTileResponse struct {
	Success bool `json:"success"`
	Tile    struct {
		X         int       `json:"x"`
		Y         int       `json:"y"`
		FrameID   int64     `json:"frameId"`
		IsPending bool      `json:"isPending"`
		PlacedAt  time.Time `json:"placedAt"`
	} `json:"tile"`
}

// PlacePendingTile handles POST /api/internal/place-pending-tile. The tile
// skips the placement economy entirely but still cannot land on an
// occupied cell.
func (h *InternalHandler) PlacePendingTile(c echo.Context) error {
	var req placePendingTileRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.authorize(req.Secret); err != nil {
		return err
	}

	tile, err := h.tiles.PlacePending(c.Request().Context(), req.FrameID, req.X, req.Y)
	if err != nil {
		return err
	}

	var resp pendingTileResponse
	resp.Success = true
	resp.Tile.X = tile.X
	resp.Tile.Y = tile.Y
	resp.Tile.FrameID = tile.FrameID
	resp.Tile.IsPending = tile.IsPending
	resp.Tile.PlacedAt = tile.PlacedAt
	return c.JSON(http.StatusCreated, resp)
}

type verifyTokenRequest struct {
	Secret string `json:"secret" validate:"required"`
	Token  string `json:"token" validate:"required"`
}

type verifyTokenResponse struct {
	Valid     bool   `json:"valid"`
	SlackID   string `json:"slackId,omitempty"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
	Error     string `json:"error,omitempty"`
}

// VerifyToken handles POST /api/internal/verify-token. Unlike the other
// internal endpoints, a bad token is a normal outcome here and renders a
// 400 with valid=false instead of the error envelope.
func (h *InternalHandler) VerifyToken(c echo.Context) error {
	var req verifyTokenRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.authorize(req.Secret); err != nil {
		return err
	}

	claims, err := h.auth.VerifyAuthorshipToken(req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, verifyTokenResponse{
			Valid: false,
			Error: "invalid or expired authorship token",
		})
	}

	return c.JSON(http.StatusOK, verifyTokenResponse{
		Valid:     true,
		SlackID:   claims.SlackID,
		ExpiresAt: claims.ExpiresAt.UnixMilli(),
	})
}
