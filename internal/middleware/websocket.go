package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade rejects plain HTTP requests to websocket endpoints and
// carries the connection id across the upgrade.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Locals set before the upgrade are the only request state the
		// websocket handler can still see.
		if id, ok := c.Locals(ConnectionIDKey).(string); ok {
			c.Locals("wsConnectionID", id)
		}
		return c.Next()
	}
}
