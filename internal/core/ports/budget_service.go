package ports

import (
	"context"

	"github.com/hackclub/iplace/internal/core/domain"
)

// EligibleProject is a reported project a user may still attach to a frame.
type EligibleProject struct {
	Name    string
	Seconds int64
}

// BudgetService converts externally reported work into approved time.
type BudgetService interface {
	// ResolveApprovedTime sums the total seconds of the entries matching the
	// given project names, restricted to the eligibility window and entries
	// with recorded activity. Unmatched names contribute zero. Pure
	// computation: the caller persists the result.
	ResolveApprovedTime(ctx context.Context, slackID string, projectNames []string) (int64, error)
	// ListEligibleProjects returns the user's reported projects that are in
	// the eligibility window, above the candidate minimum, show activity,
	// and are not already attached to one of the user's frames. Project
	// names are consumed exclusively: once used, never offered again.
	ListEligibleProjects(ctx context.Context, user *domain.User) ([]EligibleProject, error)
}
