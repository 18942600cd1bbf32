package ports

import (
	"context"

	"github.com/hackclub/iplace/internal/core/domain"
)

// PlaceTileInput identifies a proposed placement.
type PlaceTileInput struct {
	RequesterID int64
	FrameID     int64
	X, Y        int
}

// PlacementResult is returned on a committed placement.
type PlacementResult struct {
	Tile  *domain.Tile
	Frame *domain.Frame
	// RemainingTime is the frame's unspent approved time after the commit.
	RemainingTime int64
}

// TileService decides placement legality and commits tiles.
type TileService interface {
	// Place validates ownership, frame state, budget and adjacency, then
	// atomically commits the tile and the frame counter.
	Place(ctx context.Context, input PlaceTileInput) (*PlacementResult, error)
	// PlacePending force-places an individually pending tile on behalf of
	// the automation boundary. It bypasses ownership, state, budget and
	// adjacency, but never coordinate uniqueness.
	PlacePending(ctx context.Context, frameID int64, x, y int) (*domain.Tile, error)
}
