package middleware

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger logs each HTTP request as one JSON object per line on stdout, with
// timestamps in the server's local time zone.
func Logger() fiber.Handler {
	return LoggerWithWriter(os.Stdout, time.Local)
}

// LoggerWithWriter is Logger with an explicit destination and time zone.
// Fields per line:
// - ts (RFC3339, in loc)
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path
// - status
// - latency (in milliseconds, as float)
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	enc := json.NewEncoder(w)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Process request
		err := c.Next()

		// Collect fields after handler executed to capture final status
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		method := c.Method()
		// Use only the path segment (no query string)
		path := c.Path()
		status := c.Response().StatusCode()
		latency := float64(time.Since(start).Milliseconds())

		_ = enc.Encode(map[string]any{
			"ts":         time.Now().In(loc).Format(time.RFC3339),
			"request_id": rid,
			"method":     method,
			"path":       path,
			"status":     status,
			"latency":    latency,
		})

		return err
	}
}
