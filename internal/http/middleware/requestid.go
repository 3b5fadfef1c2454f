package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the standard header name used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID ensures every request carries an ID: the inbound X-Request-ID is
// propagated when present, otherwise a fresh UUID is minted. The value is
// stored in context locals for the logger and error payloads and echoed back
// on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		// Store in context for downstream handlers/middlewares
		c.Locals(RequestIDLocalKey, id)

		// Ensure the response carries the request ID
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
