package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hackclub/iplace/internal/core/domain"
	"github.com/hackclub/iplace/internal/core/ports"
)

func authedContext(t *testing.T, user *domain.User, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/place-tile", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(userContextKey, user)
	}
	return c, rec
}

func TestTileHandler_Place(t *testing.T) {
	placedAt := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	tiles := &stubTileService{
		placeFn: func(_ context.Context, input ports.PlaceTileInput) (*ports.PlacementResult, error) {
			if input.RequesterID != 1 || input.FrameID != 7 || input.X != 0 || input.Y != 5 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.PlacementResult{
				Tile:          &domain.Tile{ID: 1, X: input.X, Y: input.Y, FrameID: input.FrameID, PlacedAt: placedAt},
				Frame:         &domain.Frame{ID: input.FrameID, PlacedTiles: 2},
				RemainingTime: 3600,
			}, nil
		},
	}
	h := NewTileHandler(tiles)

	// x=0 must pass validation.
	c, rec := authedContext(t, &domain.User{ID: 1}, `{"x":0,"y":5,"frameId":7}`)
	if err := h.Place(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp placeTileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Frame.PlacedTiles != 2 || resp.Frame.RemainingTime != 3600 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestTileHandler_Place_RequiresLogin(t *testing.T) {
	h := NewTileHandler(&stubTileService{})

	c, _ := authedContext(t, nil, `{"x":0,"y":5,"frameId":7}`)
	if err := h.Place(c); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestTileHandler_Place_MissingFrame(t *testing.T) {
	h := NewTileHandler(&stubTileService{})

	c, _ := authedContext(t, &domain.User{ID: 1}, `{"x":0,"y":5}`)
	err := h.Place(c)
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing frameId, got %d", got)
	}
}

func TestTileHandler_Place_ServiceErrorsPassThrough(t *testing.T) {
	tiles := &stubTileService{
		placeFn: func(context.Context, ports.PlaceTileInput) (*ports.PlacementResult, error) {
			return nil, domain.ErrPositionOccupied
		},
	}
	h := NewTileHandler(tiles)

	c, _ := authedContext(t, &domain.User{ID: 1}, `{"x":3,"y":5,"frameId":7}`)
	if err := h.Place(c); !errors.Is(err, domain.ErrPositionOccupied) {
		t.Fatalf("expected ErrPositionOccupied, got %v", err)
	}
}
