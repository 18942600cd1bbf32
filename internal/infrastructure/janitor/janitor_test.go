package janitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackclub/iplace/internal/core/domain"
)

type countingSessionRepo struct {
	sweeps atomic.Int64
	err    error
}

func (r *countingSessionRepo) Create(context.Context, *domain.Session) error {
	return nil
}

func (r *countingSessionRepo) Find(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrNotAuthenticated
}

func (r *countingSessionRepo) DeleteExpired(context.Context, time.Time) (int64, error) {
	r.sweeps.Add(1)
	return 1, r.err
}

func TestJanitor_SweepsOnStartAndOnTick(t *testing.T) {
	repo := &countingSessionRepo{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	New(repo, 10*time.Millisecond, zerolog.Nop()).Start(ctx)

	deadline := time.After(2 * time.Second)
	for repo.sweeps.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d sweeps before deadline", repo.sweeps.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestJanitor_KeepsRunningAfterSweepFailure(t *testing.T) {
	repo := &countingSessionRepo{err: errors.New("locked")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	New(repo, 10*time.Millisecond, zerolog.Nop()).Start(ctx)

	deadline := time.After(2 * time.Second)
	for repo.sweeps.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("only %d sweeps before deadline", repo.sweeps.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}
