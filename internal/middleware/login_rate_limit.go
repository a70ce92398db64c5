package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// LoginRateLimit limits login attempts per email (falling back to client IP)
// using a Redis counter with a one minute window.
func LoginRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}

		var probe struct {
			Email string `json:"email"`
		}
		_ = c.BodyParser(&probe)
		subject := strings.ToLower(strings.TrimSpace(probe.Email))
		if subject == "" {
			subject = c.IP()
		}
		key := "login_attempts:" + subject

		ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
		defer cancel()

		count, err := cache.Incr(ctx, key).Result()
		if err != nil {
			// Rate limiting is advisory; never block logins on a cache outage.
			return c.Next()
		}
		if count == 1 {
			cache.Expire(ctx, key, time.Minute)
		}
		if count > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many login attempts, try again later")
		}

		return c.Next()
	}
}
