package middleware

import "github.com/gofiber/fiber/v2"

// NoCache marks responses as non-cacheable. The public verification endpoint
// is mounted behind it so a deleted letter never keeps validating out of an
// intermediary cache.
func NoCache() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Next()
	}
}
