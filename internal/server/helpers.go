package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// parseID extracts a positive numeric path parameter. On a malformed value it
// renders the JSON 400 itself and reports false.
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

// currentUserID returns the authenticated user ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
