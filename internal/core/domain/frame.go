package domain

import (
	"strings"
	"time"
)

// TileCost is the approved time consumed by a single tile, in seconds.
// One tile per verified hour of work.
const TileCost = 3600

// MinCandidateSeconds is the minimum cumulative time a reported project must
// carry to show up as a selectable candidate. Approval itself has no
// minimum; it sums whatever the frame's project names match.
const MinCandidateSeconds = 3600

// FrameState is the lifecycle state of a frame, derived from the pending
// flag and the approved-time balance.
type FrameState string

const (
	// StatePendingInitial: just created, never approved, placement disabled.
	StatePendingInitial FrameState = "pending_initial"
	// StateApproved: carries an approved-time balance, tiles placeable.
	StateApproved FrameState = "approved"
	// StatePendingReview: owner asked for more time, placement disabled
	// until a fresh approval clears the pending flag.
	StatePendingReview FrameState = "pending_review"
)

// Frame is a user-owned claim on the grid. ApprovedTime bounds the number of
// tiles the frame may ever hold: PlacedTiles * TileCost <= *ApprovedTime.
type Frame struct {
	ID           int64  `json:"id"`
	OwnerID      int64  `json:"owner_id"`
	URL          string `json:"url"`
	ProjectNames string `json:"project_names"` // comma-joined, order-insignificant
	IsPending    bool   `json:"is_pending"`
	ApprovedTime *int64 `json:"approved_time"` // seconds; nil until first approval
	PlacedTiles  int    `json:"placed_tiles"`
	// TrackerRecordID references the external review-tracker row driving
	// approvals for this frame.
	TrackerRecordID string    `json:"tracker_record_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// State derives the lifecycle state.
func (f *Frame) State() FrameState {
	switch {
	case f.IsPending && f.ApprovedTime == nil:
		return StatePendingInitial
	case f.IsPending:
		return StatePendingReview
	default:
		return StateApproved
	}
}

// ProjectNameList splits the comma-joined project names into trimmed,
// non-empty literal names.
func (f *Frame) ProjectNameList() []string {
	parts := strings.Split(f.ProjectNames, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// RemainingTime is the unspent approved time in seconds. Zero when the frame
// was never approved.
func (f *Frame) RemainingTime() int64 {
	if f.ApprovedTime == nil {
		return 0
	}
	return *f.ApprovedTime - int64(f.PlacedTiles)*TileCost
}
