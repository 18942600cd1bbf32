package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackclub/iplace/internal/core/domain"
	"github.com/hackclub/iplace/internal/core/ports"
)

// BudgetService resolves externally reported work into approved time.
// Pure computation over the work source; persistence stays with callers.
type BudgetService struct {
	source    ports.WorkSource
	frames    ports.FrameRepository
	beginDate time.Time
	logger    zerolog.Logger
}

func NewBudgetService(source ports.WorkSource, frames ports.FrameRepository, beginDate time.Time, logger zerolog.Logger) *BudgetService {
	return &BudgetService{source: source, frames: frames, beginDate: beginDate, logger: logger}
}

// ResolveApprovedTime sums the seconds of eligible entries matching the
// given project names. Each name matches at most one entry, by exact name
// equality; unmatched names contribute zero and raise no error.
func (s *BudgetService) ResolveApprovedTime(ctx context.Context, slackID string, projectNames []string) (int64, error) {
	entries, err := s.source.FetchWorkEntries(ctx, slackID)
	if err != nil {
		return 0, fmt.Errorf("resolve approved time for %s: %w", slackID, err)
	}

	var total int64
	for _, name := range projectNames {
		for i := range entries {
			if entries[i].Name != name {
				continue
			}
			if entries[i].Eligible(s.beginDate) {
				total += entries[i].TotalSeconds
			}
			break
		}
	}

	s.logger.Debug().
		Str("slack_id", slackID).
		Strs("projects", projectNames).
		Int64("total_seconds", total).
		Msg("approved time resolved")

	return total, nil
}

// ListEligibleProjects returns the user's reported projects that are inside
// the eligibility window, above the candidate minimum, carry at least one
// heartbeat, and are not already consumed by one of the user's frames.
func (s *BudgetService) ListEligibleProjects(ctx context.Context, user *domain.User) ([]ports.EligibleProject, error) {
	entries, err := s.source.FetchWorkEntries(ctx, user.SlackID)
	if err != nil {
		return nil, fmt.Errorf("list projects for %s: %w", user.SlackID, err)
	}

	used, err := s.usedProjectNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	projects := make([]ports.EligibleProject, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if !e.Eligible(s.beginDate) {
			continue
		}
		if e.TotalSeconds <= domain.MinCandidateSeconds {
			continue
		}
		if _, taken := used[e.Name]; taken {
			continue
		}
		projects = append(projects, ports.EligibleProject{Name: e.Name, Seconds: e.TotalSeconds})
	}

	return projects, nil
}

// usedProjectNames collects every project name attached to any of the
// user's frames. Names are consumed exclusively across all frames.
func (s *BudgetService) usedProjectNames(ctx context.Context, ownerID int64) (map[string]struct{}, error) {
	frames, err := s.frames.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list frames for owner %d: %w", ownerID, err)
	}

	used := make(map[string]struct{})
	for _, f := range frames {
		for _, name := range f.ProjectNameList() {
			used[name] = struct{}{}
		}
	}
	return used, nil
}
