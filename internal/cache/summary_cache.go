// Package cache keeps recently composed dashboard summaries in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/services"
	"github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	keyPrefix           = "healthtracker:dashboard:"
	breakerFailureLimit = 3
	breakerOpenTimeout  = 30 * time.Second
)

var errMiss = errors.New("cache miss")

// SummaryCache is safe for concurrent use. The zero value and a nil
// *SummaryCache are disabled caches that never hit.
type SummaryCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	ttl     time.Duration
	logger  *zap.Logger
}

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New returns a disabled cache when options.Addr is empty.
func New(options Options, logger *zap.Logger) *SummaryCache {
	if options.Addr == "" {
		return &SummaryCache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     options.Addr,
		Password: options.Password,
		DB:       options.DB,
	})
	return NewWithClient(client, options.TTL, logger)
}

func NewWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SummaryCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "dashboard-cache",
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureLimit
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errMiss)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("cache circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &SummaryCache{client: client, breaker: breaker, ttl: ttl, logger: logger}
}

func (cache *SummaryCache) Enabled() bool {
	return cache != nil && cache.client != nil
}

func versionKey(userID uint) string {
	return fmt.Sprintf("%s%d:v", keyPrefix, userID)
}

func dashboardKey(userID uint, version int64) string {
	return fmt.Sprintf("%s%d:%d", keyPrefix, userID, version)
}

// GetDashboard reports false on a miss and on any cache failure. The
// returned version must be handed back to PutDashboard; it is negative
// when nothing should be stored.
func (cache *SummaryCache) GetDashboard(ctx context.Context, userID uint) (services.DashboardSummary, int64, bool) {
	if !cache.Enabled() {
		return services.DashboardSummary{}, -1, false
	}

	var version int64
	payload, err := cache.breaker.Execute(func() ([]byte, error) {
		current, err := cache.client.Get(ctx, versionKey(userID)).Int64()
		switch {
		case errors.Is(err, redis.Nil):
			current = 0
		case err != nil:
			return nil, err
		}
		version = current

		value, err := cache.client.Get(ctx, dashboardKey(userID, current)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, errMiss
		}
		return value, err
	})
	if err != nil {
		if !errors.Is(err, errMiss) {
			cache.logger.Warn("dashboard cache read failed", zap.Uint("user_id", userID), zap.Error(err))
			return services.DashboardSummary{}, -1, false
		}
		return services.DashboardSummary{}, version, false
	}

	var summary services.DashboardSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		cache.logger.Warn("dashboard cache entry is corrupt", zap.Uint("user_id", userID), zap.Error(err))
		return services.DashboardSummary{}, version, false
	}
	return summary, version, true
}

// PutDashboard stores a fully composed summary under the version read
// before composing it. A write that lands after Invalidate goes to a
// retired version and is never served. Degraded summaries are skipped so
// a transient failure is not served for the whole TTL.
func (cache *SummaryCache) PutDashboard(ctx context.Context, userID uint, version int64, summary services.DashboardSummary) {
	if !cache.Enabled() || version < 0 || len(summary.Degraded) > 0 {
		return
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		cache.logger.Warn("dashboard cache encode failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	_, err = cache.breaker.Execute(func() ([]byte, error) {
		return nil, cache.client.Set(ctx, dashboardKey(userID, version), payload, cache.ttl).Err()
	})
	if err != nil {
		cache.logger.Warn("dashboard cache write failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// Invalidate retires the current version, so entries stored under it are
// no longer read and expire on their own.
func (cache *SummaryCache) Invalidate(ctx context.Context, userID uint) {
	if !cache.Enabled() {
		return
	}

	_, err := cache.breaker.Execute(func() ([]byte, error) {
		return nil, cache.client.Incr(ctx, versionKey(userID)).Err()
	})
	if err != nil {
		cache.logger.Warn("dashboard cache invalidation failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func (cache *SummaryCache) Ping(ctx context.Context) error {
	if !cache.Enabled() {
		return nil
	}
	return cache.client.Ping(ctx).Err()
}

func (cache *SummaryCache) Close() error {
	if !cache.Enabled() {
		return nil
	}
	return cache.client.Close()
}
