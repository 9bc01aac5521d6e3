package api

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const idleLimiterTTL = 10 * time.Minute

type limitedClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientRateLimiter keeps a token bucket per client key. Idle buckets are
// dropped lazily on later calls.
type clientRateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*limitedClient
	lastSweep time.Time
}

func newClientRateLimiter(limit rate.Limit, burst int) *clientRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientRateLimiter{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*limitedClient),
	}
}

func (limiter *clientRateLimiter) allow(key string, now time.Time) bool {
	if limiter == nil || limiter.limit <= 0 {
		return true
	}

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	if now.Sub(limiter.lastSweep) > idleLimiterTTL {
		for clientKey, client := range limiter.clients {
			if now.Sub(client.lastSeen) > idleLimiterTTL {
				delete(limiter.clients, clientKey)
			}
		}
		limiter.lastSweep = now
	}

	client, ok := limiter.clients[key]
	if !ok {
		client = &limitedClient{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.clients[key] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

// AdminRateLimit throttles mutating admin requests per client.
func (handler *Handler) AdminRateLimit(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead {
		return c.Next()
	}
	if !handler.adminLimiter.allow(clientKey(c), handler.now()) {
		return handler.apiError(c, fiber.StatusTooManyRequests, "error.rate_limited")
	}
	return c.Next()
}
