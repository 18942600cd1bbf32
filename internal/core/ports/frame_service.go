package ports

import (
	"context"

	"github.com/hackclub/iplace/internal/core/domain"
)

// CreateFrameInput carries the data needed to claim a new frame. SlackID is
// already verified (extracted from an authorship token by the caller).
type CreateFrameInput struct {
	SlackID         string
	URL             string
	ProjectNames    string
	TrackerRecordID string
}

// FrameService owns the frame lifecycle:
// pending_initial -> approved -> pending_review -> approved.
type FrameService interface {
	// Create produces a frame in pending_initial with no approved time.
	Create(ctx context.Context, input CreateFrameInput) (*domain.Frame, error)
	// Approve recomputes the approved time from the external work source and
	// clears the pending flag. Re-approving replaces the balance; it never
	// accumulates on top of a prior approval.
	Approve(ctx context.Context, url string) (*domain.Frame, error)
	// RequestReview sends an approved frame back for review. Only the owner
	// may request; placement is disabled until the next approval.
	RequestReview(ctx context.Context, requesterID, frameID int64) (*domain.Frame, error)
	// Recent returns the requester's most recently created frame, if any.
	Recent(ctx context.Context, ownerID int64) ([]*domain.Frame, error)
}
