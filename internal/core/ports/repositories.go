package ports

import (
	"context"
	"time"

	"github.com/hackclub/iplace/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindBySlackID(ctx context.Context, slackID string) (*domain.User, error)
	// Upsert creates the user on first login and refreshes name/avatar on
	// subsequent logins, keyed by the immutable slack id.
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
}

// SessionRepository defines persistence operations for login sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	Find(ctx context.Context, id string) (*domain.Session, error)
	// DeleteExpired removes sessions whose expiry is before now and returns
	// how many rows were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// FrameRepository defines persistence operations for frames.
type FrameRepository interface {
	Create(ctx context.Context, f *domain.Frame) (*domain.Frame, error)
	FindByID(ctx context.Context, id int64) (*domain.Frame, error)
	// FindByURL returns the frame claiming the given locator. The automation
	// boundary addresses frames by URL rather than id.
	FindByURL(ctx context.Context, url string) (*domain.Frame, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Frame, error)
	// LatestByOwner returns up to limit frames of the owner, newest first.
	LatestByOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.Frame, error)
	// SetApproval stores the recomputed approved time and clears the pending
	// flag. The value replaces any previous balance; it never accumulates.
	SetApproval(ctx context.Context, id int64, approvedTime int64) (*domain.Frame, error)
	MarkPending(ctx context.Context, id int64) (*domain.Frame, error)
}

// TileRepository defines persistence operations for tiles. Place and
// PlacePending are the only mutations; both rely on the store's UNIQUE(x, y)
// constraint as the final arbiter of cell occupancy.
type TileRepository interface {
	FindAt(ctx context.Context, x, y int) (*domain.Tile, error)
	ListByFrame(ctx context.Context, frameID int64) ([]*domain.Tile, error)
	// ListVisible returns the published tiles: not individually pending and
	// belonging to non-pending frames.
	ListVisible(ctx context.Context) ([]*domain.Tile, error)
	// ListPendingByOwner returns individually pending tiles on frames owned
	// by the given user (the owner's unpublished preview).
	ListPendingByOwner(ctx context.Context, ownerID int64) ([]*domain.Tile, error)
	// Place atomically inserts the tile and increments the frame's placed
	// counter, re-checking the budget and pending gate inside the same
	// transaction. Returns the created tile and the updated frame.
	// Fails with domain.ErrPositionOccupied when the cell is taken and
	// domain.ErrBudgetExceeded when the guarded increment matches no row.
	Place(ctx context.Context, t *domain.Tile) (*domain.Tile, *domain.Frame, error)
	// PlacePending inserts a tile without touching the frame counter.
	// Used only by the automation boundary.
	PlacePending(ctx context.Context, t *domain.Tile) (*domain.Tile, error)
}
