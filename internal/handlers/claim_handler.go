package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ironthroneruler/lostandfound/internal/authz"
	"github.com/ironthroneruler/lostandfound/internal/dto"
	"github.com/ironthroneruler/lostandfound/internal/lifecycle"
	"github.com/ironthroneruler/lostandfound/internal/services"
)

type ClaimHandler struct {
	claimService *services.ClaimService
}

func NewClaimHandler(claimService *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

// Submit handles POST /api/items/:id/claims.
func (h *ClaimHandler) Submit(c *fiber.Ctx) error {
	actor, err := authz.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}

	var req dto.SubmitClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	claim, err := h.claimService.Submit(itemID, actor.ID, &req)
	if err != nil {
		return claimError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(claim)
}

func (h *ClaimHandler) ListMine(c *fiber.Ctx) error {
	actor, err := authz.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	claims, err := h.claimService.ListMine(actor.ID)
	if err != nil {
		return serverError(c, "Failed to fetch claims")
	}
	return c.JSON(fiber.Map{"claims": claims})
}

// List handles GET /api/admin/claims (staff).
func (h *ClaimHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	claims, total, err := h.claimService.List(c.Query("status"), limit, offset)
	if err != nil {
		return serverError(c, "Failed to fetch claims")
	}
	return c.JSON(fiber.Map{
		"claims": claims,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Review handles POST /api/admin/claims/:id/review (staff).
func (h *ClaimHandler) Review(c *fiber.Ctx) error {
	actor, err := authz.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	claimID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid claim ID")
	}

	var req dto.ReviewClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	claim, err := h.claimService.Review(claimID, actor.ID, &req)
	if err != nil {
		return claimError(c, err)
	}
	return c.JSON(claim)
}

// Undo handles POST /api/admin/claims/:id/undo (staff).
func (h *ClaimHandler) Undo(c *fiber.Ctx) error {
	actor, err := authz.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	claimID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid claim ID")
	}

	claim, err := h.claimService.Undo(claimID, actor.ID)
	if err != nil {
		return claimError(c, err)
	}
	return c.JSON(claim)
}

func claimError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrClaimNotFound), errors.Is(err, services.ErrItemNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, services.ErrSelfClaim),
		errors.Is(err, services.ErrItemNotAvailable),
		errors.Is(err, services.ErrDuplicatePendingClaim):
		// Validation failures, not system errors.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrPreconditionFailed):
		return conflict(c, err.Error())
	case errors.Is(err, services.ErrConcurrencyConflict):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Update conflict, please retry",
		})
	default:
		return badRequest(c, err.Error())
	}
}
