// Package janitor runs the background sweep that removes expired login
// sessions from the store.
package janitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackclub/iplace/internal/core/ports"
)

const defaultInterval = time.Hour

// Janitor periodically deletes expired sessions. Expired sessions are
// already rejected at read time; the sweep only keeps the table from
// growing without bound.
type Janitor struct {
	sessions ports.SessionRepository
	interval time.Duration
	log      zerolog.Logger
}

// New creates a Janitor sweeping every interval. If interval <= 0,
// defaultInterval is used.
func New(sessions ports.SessionRepository, interval time.Duration, log zerolog.Logger) *Janitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Janitor{
		sessions: sessions,
		interval: interval,
		log:      log,
	}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	go j.run(ctx)
}

func (j *Janitor) run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	deleted, err := j.sessions.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		j.log.Error().Err(err).Msg("session sweep failed")
		return
	}
	if deleted > 0 {
		j.log.Info().Int64("deleted", deleted).Msg("swept expired sessions")
	}
}
