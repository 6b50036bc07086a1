// Package authz extracts the acting user from the request and exposes
// capability predicates. Role checks live here, at the boundary; the service
// layer enforces data invariants only.
package authz

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ironthroneruler/lostandfound/internal/models"
)

var ErrNoActor = errors.New("no authenticated actor in request context")

// Actor is the authenticated caller of a state-changing operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// FromContext reads the actor out of the verified JWT in Fiber locals.
func FromContext(c *fiber.Ctx) (Actor, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Actor{}, ErrNoActor
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, ErrNoActor
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return Actor{}, ErrNoActor
	}
	role, _ := claims["role"].(string)
	return Actor{ID: id, Role: role}, nil
}

// Staff reports whether the actor acts on behalf of the lost-and-found office.
func (a Actor) Staff() bool {
	return a.Role == models.RoleTeacher || a.Role == models.RoleAdmin
}

// CanReview covers report review, claim review and review undo.
func (a Actor) CanReview() bool { return a.Staff() }

// CanDiscard covers manual discards and sweep triggers.
func (a Actor) CanDiscard() bool { return a.Staff() }

// CanEdit allows the reporter to fix their own submission, and staff any.
func (a Actor) CanEdit(item *models.Item) bool {
	return a.ID == item.SubmittedByID || a.Staff()
}
