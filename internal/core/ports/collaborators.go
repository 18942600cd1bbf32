package ports

import (
	"context"

	"github.com/hackclub/iplace/internal/core/domain"
)

// WorkSource fetches externally verified work entries for an identity.
// Transport failures must be surfaced (wrapping domain.ErrUpstream), never
// swallowed or retried here.
type WorkSource interface {
	FetchWorkEntries(ctx context.Context, slackID string) ([]domain.WorkEntry, error)
}

// Identity is the verified result of an external login.
type Identity struct {
	SlackID string
	Name    string
	Avatar  string
}

// IdentityProvider exchanges an OAuth authorization code for a verified
// identity.
type IdentityProvider interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*Identity, error)
}

// ReviewQueue notifies the external review tracker that a frame wants a
// fresh approval pass.
type ReviewQueue interface {
	RequestReview(ctx context.Context, trackerRecordID string) error
}
