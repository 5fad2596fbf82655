package middleware

import (
	"slices"

	"github.com/gofiber/fiber/v2"
)

// EnsurePlayerID resolves the caller's player ID from the X-Player-ID header
// or the playerId query parameter and stores it in the "playerID" local.
// IDs listed in reserved belong to the server and are refused.
func EnsurePlayerID(reserved ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}
		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
				"code":  "missing_player_id",
			})
		}
		if slices.Contains(reserved, playerID) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "player ID " + playerID + " is reserved",
				"code":  "reserved_player_id",
			})
		}

		c.Locals("playerID", playerID)
		return c.Next()
	}
}
