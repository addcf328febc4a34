package routing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

const priorKeyPrefix = "routing:prior:"

// CachedHistory decorates a HistoryProvider with a short-lived Redis cache.
// The grouped aggregate runs on every low-confidence intake, so the dominant
// pair per category is cached with a TTL instead of hitting Postgres each
// time. Any cache failure falls through to the inner provider.
type CachedHistory struct {
	inner  HistoryProvider
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

type cachedPrior struct {
	Team     *string                `json:"team,omitempty"`
	Priority *domain.TicketPriority `json:"priority,omitempty"`
	Empty    bool                   `json:"empty,omitempty"`
}

// NewCachedHistory wraps inner. A nil client disables caching entirely.
func NewCachedHistory(inner HistoryProvider, client *redis.Client, ttl time.Duration, logger *zap.Logger) HistoryProvider {
	if client == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedHistory{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *CachedHistory) DominantRoute(ctx context.Context, category domain.Category) (*Prior, error) {
	key := priorKeyPrefix + string(category)

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var cached cachedPrior
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			if cached.Empty {
				return nil, nil
			}
			return &Prior{Team: cached.Team, Priority: cached.Priority}, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Debug("routing prior cache read failed", zap.Error(err))
	}

	prior, err := c.inner.DominantRoute(ctx, category)
	if err != nil {
		return nil, err
	}

	cached := cachedPrior{Empty: prior == nil}
	if prior != nil {
		cached.Team = prior.Team
		cached.Priority = prior.Priority
	}
	if payload, err := json.Marshal(cached); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Debug("routing prior cache write failed", zap.Error(err))
		}
	}
	return prior, nil
}
