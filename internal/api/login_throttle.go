package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// loginThrottle counts failed sign-ins per client and email inside a sliding
// window. A successful sign-in clears the key.
type loginThrottle struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	failures map[string][]time.Time
}

func newLoginThrottle(limit int, window time.Duration) *loginThrottle {
	return &loginThrottle{
		limit:    limit,
		window:   window,
		failures: make(map[string][]time.Time),
	}
}

func (throttle *loginThrottle) blocked(key string, now time.Time) bool {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	return len(throttle.recentLocked(key, now)) >= throttle.limit
}

func (throttle *loginThrottle) recordFailure(key string, now time.Time) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	throttle.failures[key] = append(throttle.recentLocked(key, now), now)
}

func (throttle *loginThrottle) clear(key string) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	delete(throttle.failures, key)
}

func (throttle *loginThrottle) recentLocked(key string, now time.Time) []time.Time {
	values := throttle.failures[key]
	if len(values) == 0 {
		return nil
	}

	threshold := now.Add(-throttle.window)
	recent := values[:0]
	for _, value := range values {
		if value.After(threshold) {
			recent = append(recent, value)
		}
	}

	if len(recent) == 0 {
		delete(throttle.failures, key)
		return nil
	}
	throttle.failures[key] = recent
	return recent
}

func loginThrottleKey(c *fiber.Ctx, email string) string {
	client := strings.TrimSpace(c.IP())
	if client == "" {
		client = "unknown"
	}
	return client + "|" + strings.ToLower(strings.TrimSpace(email))
}
