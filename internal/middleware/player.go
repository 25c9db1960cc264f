package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const playerIDKey = "playerID"

// EnsurePlayerID reads the client id from the X-Player-ID header or the
// playerId query parameter.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(playerIDKey) != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}

		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		c.Locals(playerIDKey, utils.CopyString(playerID))
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID.
func PlayerID(c *fiber.Ctx) string {
	playerID, _ := c.Locals(playerIDKey).(string)
	return playerID
}
