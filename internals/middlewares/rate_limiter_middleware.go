package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "studiofit_backend/internals/helpers"
)

// storage is nil for the in-memory limiter store.
func newLimiter(storage fiber.Storage, max int, window time.Duration, msg string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, msg)
		},
		Storage: storage,
	})
}

// Global limiter for every endpoint.
func GlobalRateLimiter(storage fiber.Storage) fiber.Handler {
	return newLimiter(storage, 100, time.Minute, "Too many requests, try again later")
}

func LoginRateLimiter(storage fiber.Storage) fiber.Handler {
	return newLimiter(storage, 5, time.Minute, "Too many login attempts, try again in a minute")
}

func RegisterRateLimiter(storage fiber.Storage) fiber.Handler {
	return newLimiter(storage, 3, 5*time.Minute, "Too many sign-ups from this address, wait a few minutes")
}
