package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"schemetrack_backend/internals/configs"
	helper "schemetrack_backend/internals/helpers"
)

// Global limiter: every endpoint
func GlobalRateLimiter() fiber.Handler {
	max := configs.RateLimitMax
	if max <= 0 {
		max = 100
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "too many requests, try again later")
		},
	})
}

// Export limiter: file generation reads every scheme, keep it tighter
func ExportRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if sub := helper.GetActor(c); sub != nil {
				return "export:" + *sub
			}
			return "export:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "too many export requests, wait a minute")
		},
	})
}
