package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hackclub/iplace/internal/api/metrics"
	"github.com/hackclub/iplace/internal/core/domain"
	"github.com/hackclub/iplace/internal/core/ports"
	"github.com/hackclub/iplace/pkg/logger"
)

const entryTTL = 5 * time.Minute

// CachedWorkSource wraps a WorkSource with a short-lived Redis cache.
// Work logs change slowly and the map page hammers the same identities,
// so a few minutes of staleness buys a lot of upstream quiet. Cache
// failures fall through to the wrapped source; a broken Redis must never
// break approvals.
type CachedWorkSource struct {
	source ports.WorkSource
	client *redis.Client
}

func NewCachedWorkSource(source ports.WorkSource, client *redis.Client) *CachedWorkSource {
	return &CachedWorkSource{source: source, client: client}
}

func (c *CachedWorkSource) FetchWorkEntries(ctx context.Context, slackID string) ([]domain.WorkEntry, error) {
	key := c.key(slackID)
	log := logger.Get()

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var entries []domain.WorkEntry
		if jsonErr := json.Unmarshal(raw, &entries); jsonErr == nil {
			metrics.WorkCacheTotal.WithLabelValues("hit").Inc()
			return entries, nil
		}
		// Unreadable payload, fetch fresh and overwrite it.
		log.Warn().Str("slack_id", slackID).Msg("discarding corrupt work log cache entry")
	} else if err != redis.Nil {
		log.Warn().Err(err).Msg("work log cache unavailable")
	}
	metrics.WorkCacheTotal.WithLabelValues("miss").Inc()

	entries, err := c.source.FetchWorkEntries(ctx, slackID)
	if err != nil {
		return nil, err
	}

	if raw, jsonErr := json.Marshal(entries); jsonErr == nil {
		if err := c.client.Set(ctx, key, raw, entryTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("failed to cache work log")
		}
	}
	return entries, nil
}

func (c *CachedWorkSource) key(slackID string) string {
	return fmt.Sprintf("worklog:%s", slackID)
}
