package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ironthroneruler/lostandfound/internal/authz"
	"github.com/ironthroneruler/lostandfound/internal/dto"
	"github.com/ironthroneruler/lostandfound/internal/lifecycle"
	"github.com/ironthroneruler/lostandfound/internal/models"
	"github.com/ironthroneruler/lostandfound/internal/services"
)

type ItemHandler struct {
	itemService  *services.ItemService
	auditService *services.AuditService
}

func NewItemHandler(itemService *services.ItemService, auditService *services.AuditService) *ItemHandler {
	return &ItemHandler{itemService: itemService, auditService: auditService}
}

// Report handles POST /api/items.
func (h *ItemHandler) Report(c *fiber.Ctx) error {
	actor, err := authz.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.ReportItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	item, err := h.itemService.Report(actor.ID, &req)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(itemResponse(item, time.Now()))
}

// ListOpen handles GET /api/items with optional q and category filters.
func (h *ItemHandler) ListOpen(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	items, total, err := h.itemService.ListOpen(c.Query("q"), c.Query("category"), limit, offset)
	if err != nil {
		return serverError(c, "Failed to fetch items")
	}
	return c.JSON(fiber.Map{
		"items":  itemResponses(items),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// List handles GET /api/admin/items (staff, any status).
func (h *ItemHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	items, total, err := h.itemService.List(c.Query("status"), limit, offset)
	if err != nil {
		return serverError(c, "Failed to fetch items")
	}
	return c.JSON(fiber.Map{
		"items":  itemResponses(items),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *ItemHandler) ListMine(c *fiber.Ctx) error {
	actor, err := authz.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	items, err := h.itemService.ListMine(actor.ID)
	if err != nil {
		return serverError(c, "Failed to fetch items")
	}
	return c.JSON(fiber.Map{"items": itemResponses(items)})
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}
	item, err := h.itemService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return notFound(c, err.Error())
		}
		return serverError(c, "Failed to fetch item")
	}
	return c.JSON(itemResponse(item, time.Now()))
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	actor, err := authz.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}

	item, err := h.itemService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return notFound(c, err.Error())
		}
		return serverError(c, "Failed to fetch item")
	}
	if !actor.CanEdit(item) {
		return forbidden(c, "You do not have permission to edit this item")
	}

	var req dto.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.itemService.Update(id, actor.ID, &req)
	if err != nil {
		return itemError(c, err)
	}
	return c.JSON(itemResponse(updated, time.Now()))
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	actor, err := authz.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}

	item, err := h.itemService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return notFound(c, err.Error())
		}
		return serverError(c, "Failed to fetch item")
	}
	if !actor.CanEdit(item) {
		return forbidden(c, "You do not have permission to delete this item")
	}

	if err := h.itemService.Delete(id, actor.ID); err != nil {
		return itemError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted successfully"})
}

// ReviewReport handles POST /api/admin/items/:id/review (staff).
func (h *ItemHandler) ReviewReport(c *fiber.Ctx) error {
	actor, err := authz.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}

	var req dto.ReviewReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Action != "approve" && req.Action != "reject" {
		return badRequest(c, "action must be approve or reject")
	}

	item, err := h.itemService.ReviewReport(id, actor.ID, req.Action == "approve", req.Notes)
	if err != nil {
		return itemError(c, err)
	}
	return c.JSON(itemResponse(item, time.Now()))
}

// Discard handles POST /api/admin/items/:id/discard (staff).
func (h *ItemHandler) Discard(c *fiber.Ctx) error {
	actor, err := authz.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}

	var req dto.DiscardItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Reason == "" {
		return badRequest(c, "reason is required")
	}

	item, err := h.itemService.Discard(id, &actor.ID, req.Reason, req.Notes)
	if err != nil {
		return itemError(c, err)
	}
	return c.JSON(itemResponse(item, time.Now()))
}

// AuditTrail handles GET /api/admin/items/:id/audit (staff).
func (h *ItemHandler) AuditTrail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}
	entries, err := h.auditService.ListForItem(id)
	if err != nil {
		return serverError(c, "Failed to fetch audit trail")
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func itemError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, services.ErrItemHasActiveClaim):
		return conflict(c, err.Error())
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

func itemResponse(item *models.Item, now time.Time) dto.ItemResponse {
	resp := dto.ItemResponse{
		Item:              *item,
		DaysSinceReported: lifecycle.DaysSinceReported(item, now),
	}
	if remaining, ok := lifecycle.DaysUntilDiscard(item, now); ok {
		resp.DaysUntilDiscard = &remaining
	}
	if tier, ok := lifecycle.DiscardTier(item, now); ok {
		resp.DiscardTier = string(tier)
	}
	return resp
}

func itemResponses(items []models.Item) []dto.ItemResponse {
	now := time.Now()
	out := make([]dto.ItemResponse, len(items))
	for i := range items {
		out[i] = itemResponse(&items[i], now)
	}
	return out
}

func pagination(c *fiber.Ctx) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
