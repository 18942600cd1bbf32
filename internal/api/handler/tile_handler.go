package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hackclub/iplace/internal/core/ports"
)

// TileHandler handles player tile placement.
type TileHandler struct {
	tiles ports.TileService
}

func NewTileHandler(tiles ports.TileService) *TileHandler {
	return &TileHandler{tiles: tiles}
}

// placeTileRequest deliberately has no required tag on x and y: 0 is a
// valid coordinate.
type placeTileRequest struct {
	X       int   `json:"x"`
	Y       int   `json:"y"`
	FrameID int64 `json:"frameId" validate:"required,gt=0"`
}

type placedTileResponse struct {
	X        int       `json:"x"`
	Y        int       `json:"y"`
	FrameID  int64     `json:"frameId"`
	PlacedAt time.Time `json:"placedAt"`
}

type placedFrameResponse struct {
	PlacedTiles   int   `json:"placedTiles"`
	RemainingTime int64 `json:"remainingTime"`
}

type placeTileResponse struct {
	Success bool                `json:"success"`
	Tile    placedTileResponse  `json:"tile"`
	Frame   placedFrameResponse `json:"frame"`
}

// Place handles POST /api/place-tile.
func (h *TileHandler) Place(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req placeTileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.tiles.Place(c.Request().Context(), ports.PlaceTileInput{
		RequesterID: user.ID,
		FrameID:     req.FrameID,
		X:           req.X,
		Y:           req.Y,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, placeTileResponse{
		Success: true,
		Tile: placedTileResponse{
			X:        result.Tile.X,
			Y:        result.Tile.Y,
			FrameID:  result.Tile.FrameID,
			PlacedAt: result.Tile.PlacedAt,
		},
		Frame: placedFrameResponse{
			PlacedTiles:   result.Frame.PlacedTiles,
			RemainingTime: result.RemainingTime,
		},
	})
}
