package api

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type userRateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[uint]*userLimiterEntry
	lastGC   time.Time
}

type userLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newUserRateLimiter(perSecond float64, burst int) *userRateLimiter {
	return &userRateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[uint]*userLimiterEntry),
	}
}

func (limiter *userRateLimiter) allow(userID uint, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	if now.Sub(limiter.lastGC) > limiterIdleTTL {
		for key, entry := range limiter.limiters {
			if now.Sub(entry.lastSeen) > limiterIdleTTL {
				delete(limiter.limiters, key)
			}
		}
		limiter.lastGC = now
	}

	entry, ok := limiter.limiters[userID]
	if !ok {
		entry = &userLimiterEntry{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.limiters[userID] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// AnalyticsRateLimited must run after AuthRequired.
func (handler *Handler) AnalyticsRateLimited(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	if !handler.analyticsLimiter.allow(user.ID, time.Now()) {
		retryAfter := max(1, int(1/float64(handler.analyticsLimiter.limit)))
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return apiError(c, fiber.StatusTooManyRequests, "too many requests")
	}
	return c.Next()
}
