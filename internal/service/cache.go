package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/pageza/recipe-carousel/backend/internal/logging"
	"github.com/pageza/recipe-carousel/backend/internal/metrics"
	"github.com/pageza/recipe-carousel/backend/internal/query"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// ListingCache stores rendered listing pages. Implementations must treat
// every failure as a miss.
type ListingCache interface {
	// Get returns the cached page for d. On a miss it returns the key a
	// page loaded now must be stored under; the key pins the generation
	// seen before the load, so an Invalidate during the load orphans it.
	Get(ctx context.Context, d query.Descriptor) (result *types.ListResult, key string, ok bool)
	// Set stores result under a key from Get. An empty key is ignored.
	Set(ctx context.Context, key string, result *types.ListResult)
	// Invalidate drops every cached page.
	Invalidate(ctx context.Context)
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, query.Descriptor) (*types.ListResult, string, bool) {
	return nil, "", false
}
func (NoopCache) Set(context.Context, string, *types.ListResult) {}
func (NoopCache) Invalidate(context.Context)                     {}

const (
	generationKey = "listing:generation"
	breakerName   = "listing-cache"
)

// RedisListingCache keys pages by a generation counter so a single INCR
// invalidates everything. Calls run behind a circuit breaker so a Redis
// outage degrades to direct store reads.
type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker[[]byte]
}

func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &RedisListingCache{client: client, ttl: ttl, cb: cb}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (c *RedisListingCache) key(ctx context.Context, d query.Descriptor) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	raw, err := descriptorKey(d)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("listing:%d:%s", gen, hex.EncodeToString(sum[:])), nil
}

// descriptorKey identifies a compiled query.
func descriptorKey(d query.Descriptor) (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *RedisListingCache) Get(ctx context.Context, d query.Descriptor) (*types.ListResult, string, bool) {
	var key string
	raw, err := c.cb.Execute(func() ([]byte, error) {
		k, err := c.key(ctx, d)
		if err != nil {
			return nil, err
		}
		key = k
		return c.client.Get(ctx, key).Bytes()
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.CacheErrors.WithLabelValues("get").Inc()
			logging.Ctx(ctx).Debug().Err(err).Msg("listing cache read failed")
		}
		metrics.CacheMisses.Inc()
		return nil, key, false
	}

	var result types.ListResult
	if err := json.Unmarshal(raw, &result); err != nil {
		metrics.CacheErrors.WithLabelValues("decode").Inc()
		metrics.CacheMisses.Inc()
		return nil, key, false
	}
	metrics.CacheHits.Inc()
	return &result, key, true
}

func (c *RedisListingCache) Set(ctx context.Context, key string, result *types.ListResult) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		metrics.CacheErrors.WithLabelValues("encode").Inc()
		return
	}
	_, err = c.cb.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, key, raw, c.ttl).Err()
	})
	if err != nil {
		metrics.CacheErrors.WithLabelValues("set").Inc()
		logging.Ctx(ctx).Debug().Err(err).Msg("listing cache write failed")
	}
}

func (c *RedisListingCache) Invalidate(ctx context.Context) {
	_, err := c.cb.Execute(func() ([]byte, error) {
		return nil, c.client.Incr(ctx, generationKey).Err()
	})
	if err != nil {
		metrics.CacheErrors.WithLabelValues("invalidate").Inc()
		logging.Ctx(ctx).Warn().Err(err).Msg("listing cache invalidation failed")
	}
}
