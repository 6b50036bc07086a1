package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ironthroneruler/lostandfound/internal/authz"
	"github.com/ironthroneruler/lostandfound/internal/dto"
)

// StaffRequired gates review, discard and undo routes on the actor's role.
// The capability check happens here at the boundary; the core never sees
// roles.
func StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := authz.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !actor.CanReview() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Staff access required",
			})
		}
		return c.Next()
	}
}
