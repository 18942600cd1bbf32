package ports

import (
	"context"

	"github.com/hackclub/iplace/internal/core/domain"
)

// GridTile is the public projection of a tile.
type GridTile struct {
	X       int
	Y       int
	FrameID int64
}

// GridFrame is the public projection of a frame. Approved-time balances and
// project names are deliberately not part of this view.
type GridFrame struct {
	ID      int64
	OwnerID int64
	URL     string
}

// GridAuthor is the public projection of a user.
type GridAuthor struct {
	ID     int64
	Name   string
	Avatar string
}

// GridView is the reconstructed public read model of the whole grid.
type GridView struct {
	Tiles   []GridTile
	Frames  []GridFrame
	Authors []GridAuthor
	// PendingTiles is the requester's own unpublished work; empty for
	// anonymous requests.
	PendingTiles []GridTile
}

// GridService rebuilds a consistent public view from the tile, frame and
// user relations.
type GridService interface {
	// BuildView aggregates the published tiles plus, when requester is not
	// nil, that user's individually pending tiles. A dangling frame or
	// owner reference fails with domain.ErrIntegrity.
	BuildView(ctx context.Context, requester *domain.User) (*GridView, error)
}
