package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackclub/iplace/internal/core/ports"
)

// GridHandler serves the public read model of the grid.
type GridHandler struct {
	grid ports.GridService
}

func NewGridHandler(grid ports.GridService) *GridHandler {
	return &GridHandler{grid: grid}
}

type apiTile struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Frame int64 `json:"frame"`
}

type apiFrame struct {
	ID     int64  `json:"id"`
	Author int64  `json:"author"`
	URL    string `json:"url"`
}

type apiAuthor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	PFP  string `json:"pfp"`
}

type mapResponse struct {
	Tiles        []apiTile   `json:"tiles"`
	Frames       []apiFrame  `json:"frames"`
	Authors      []apiAuthor `json:"authors"`
	PendingTiles []apiTile   `json:"pendingTiles"`
}

// Map handles GET /api/map. Anonymous requests see the published grid;
// logged-in requests additionally see their own pending tiles and frames.
func (h *GridHandler) Map(c echo.Context) error {
	view, err := h.grid.BuildView(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}

	resp := mapResponse{
		Tiles:        make([]apiTile, 0, len(view.Tiles)),
		Frames:       make([]apiFrame, 0, len(view.Frames)),
		Authors:      make([]apiAuthor, 0, len(view.Authors)),
		PendingTiles: make([]apiTile, 0, len(view.PendingTiles)),
	}
	for _, t := range view.Tiles {
		resp.Tiles = append(resp.Tiles, apiTile{X: t.X, Y: t.Y, Frame: t.FrameID})
	}
	for _, f := range view.Frames {
		resp.Frames = append(resp.Frames, apiFrame{ID: f.ID, Author: f.OwnerID, URL: f.URL})
	}
	for _, a := range view.Authors {
		resp.Authors = append(resp.Authors, apiAuthor{ID: a.ID, Name: a.Name, PFP: a.Avatar})
	}
	for _, t := range view.PendingTiles {
		resp.PendingTiles = append(resp.PendingTiles, apiTile{X: t.X, Y: t.Y, Frame: t.FrameID})
	}

	return c.JSON(http.StatusOK, resp)
}
