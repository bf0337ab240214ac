package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const ConnectionIDKey = "connectionID"

// EnsureConnectionID tags each request with the caller's X-Connection-ID
// header or connectionId query value, generating one when both are missing.
func EnsureConnectionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(ConnectionIDKey) != nil {
			return c.Next()
		}

		id := c.Get("X-Connection-ID")
		if id == "" {
			id = c.Query("connectionId")
		}
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(ConnectionIDKey, id)
		c.Set("X-Connection-ID", id)
		return c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		event := log.Debug()
		if err != nil {
			event = log.Warn().Err(err)
		}
		id, _ := c.Locals(ConnectionIDKey).(string)
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Str("connection", id).
			Dur("took", time.Since(start)).
			Msg("request")
		return err
	}
}
