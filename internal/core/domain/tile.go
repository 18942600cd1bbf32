package domain

import "time"

// Tile is a single occupied grid cell. Coordinates are unique across the
// whole grid; the store's UNIQUE(x, y) constraint is the final arbiter.
type Tile struct {
	ID      int64 `json:"id"`
	X       int   `json:"x"`
	Y       int   `json:"y"`
	FrameID int64 `json:"frame_id"`
	// IsPending marks tiles force-placed through the automation boundary;
	// they are previewed only to their owner until published.
	IsPending bool      `json:"is_pending"`
	PlacedAt  time.Time `json:"placed_at"`
}

// AdjacentTo reports whether (x, y) is exactly one grid step away from the
// tile. Von Neumann neighborhood: diagonals do not count.
func (t *Tile) AdjacentTo(x, y int) bool {
	return abs(t.X-x)+abs(t.Y-y) == 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
