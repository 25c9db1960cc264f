package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
)

const (
	WSGameIDKey   = "wsGameID"
	WSPlayerIDKey = "wsPlayerID"
)

// WebSocketUpgrade admits only upgrade requests that name a game and carry a
// client id. Both are copied into locals the websocket handler can read.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		gameID := c.Params("gameId")
		if gameID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		}
		playerID := PlayerID(c)
		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		c.Locals(WSGameIDKey, utils.CopyString(gameID))
		c.Locals(WSPlayerIDKey, playerID)
		return c.Next()
	}
}
