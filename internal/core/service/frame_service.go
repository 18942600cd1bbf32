package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/hackclub/iplace/internal/api/metrics"
	"github.com/hackclub/iplace/internal/core/domain"
	"github.com/hackclub/iplace/internal/core/ports"
)

// FrameService owns the frame lifecycle state machine.
type FrameService struct {
	frames ports.FrameRepository
	users  ports.UserRepository
	budget ports.BudgetService
	review ports.ReviewQueue
	logger zerolog.Logger
}

func NewFrameService(frames ports.FrameRepository, users ports.UserRepository, budget ports.BudgetService, review ports.ReviewQueue, logger zerolog.Logger) *FrameService {
	return &FrameService{frames: frames, users: users, budget: budget, review: review, logger: logger}
}

// Create claims a new frame in pending_initial for the verified author.
func (s *FrameService) Create(ctx context.Context, input ports.CreateFrameInput) (*domain.Frame, error) {
	if err := validateLocator(input.URL); err != nil {
		return nil, err
	}

	frame := &domain.Frame{
		URL:             input.URL,
		ProjectNames:    input.ProjectNames,
		IsPending:       true,
		TrackerRecordID: input.TrackerRecordID,
	}
	if len(frame.ProjectNameList()) == 0 {
		return nil, fmt.Errorf("%w: project names are required", domain.ErrInvalidInput)
	}

	owner, err := s.users.FindBySlackID(ctx, input.SlackID)
	if err != nil {
		return nil, err
	}
	frame.OwnerID = owner.ID

	created, err := s.frames.Create(ctx, frame)
	if err != nil {
		s.logger.Error().Err(err).Str("url", input.URL).Msg("failed to create frame")
		return nil, err
	}

	metrics.FramesCreatedTotal.Inc()
	s.logger.Info().
		Int64("frame_id", created.ID).
		Int64("owner_id", created.OwnerID).
		Str("url", created.URL).
		Msg("frame created")

	return created, nil
}

// Approve recomputes the frame's approved time from the work source and
// clears the pending flag. The recomputed value replaces any previous
// balance so repeated approvals never double-credit.
func (s *FrameService) Approve(ctx context.Context, frameURL string) (*domain.Frame, error) {
	frame, err := s.frames.FindByURL(ctx, frameURL)
	if err != nil {
		return nil, err
	}

	names := frame.ProjectNameList()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: frame has no associated project names", domain.ErrInvalidInput)
	}

	owner, err := s.users.FindByID(ctx, frame.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: frame %d is owned by missing user %d", domain.ErrIntegrity, frame.ID, frame.OwnerID)
		}
		return nil, err
	}

	total, err := s.budget.ResolveApprovedTime(ctx, owner.SlackID, names)
	if err != nil {
		return nil, err
	}

	updated, err := s.frames.SetApproval(ctx, frame.ID, total)
	if err != nil {
		return nil, err
	}

	metrics.FramesApprovedTotal.Inc()
	s.logger.Info().
		Int64("frame_id", updated.ID).
		Str("url", updated.URL).
		Int64("approved_time", total).
		Msg("frame approved")

	return updated, nil
}

// RequestReview sends the frame back for review. The tracker is notified
// first; when that fails the frame stays approved and placeable.
func (s *FrameService) RequestReview(ctx context.Context, requesterID, frameID int64) (*domain.Frame, error) {
	frame, err := s.frames.FindByID(ctx, frameID)
	if err != nil {
		return nil, err
	}
	if frame.OwnerID != requesterID {
		return nil, domain.ErrForbidden
	}
	if frame.IsPending {
		return nil, domain.ErrAlreadyPending
	}

	if err := s.review.RequestReview(ctx, frame.TrackerRecordID); err != nil {
		s.logger.Error().Err(err).Int64("frame_id", frameID).Msg("review tracker notification failed")
		return nil, err
	}

	updated, err := s.frames.MarkPending(ctx, frameID)
	if err != nil {
		return nil, err
	}

	metrics.FramesRePendedTotal.Inc()
	s.logger.Info().Int64("frame_id", frameID).Msg("frame sent back for review")

	return updated, nil
}

// Recent returns the owner's most recently created frame.
func (s *FrameService) Recent(ctx context.Context, ownerID int64) ([]*domain.Frame, error) {
	return s.frames.LatestByOwner(ctx, ownerID, 1)
}

// validateLocator accepts absolute http(s) URLs only.
func validateLocator(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: url must be a valid URL", domain.ErrInvalidInput)
	}
	return nil
}
