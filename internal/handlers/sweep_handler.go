package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/ironthroneruler/lostandfound/internal/scheduler"
)

type SweepHandler struct {
	scheduler *scheduler.Scheduler
}

func NewSweepHandler(s *scheduler.Scheduler) *SweepHandler {
	return &SweepHandler{scheduler: s}
}

// Trigger handles POST /api/admin/discard-sweep (staff). Query params:
// days (threshold override) and dry_run.
func (h *SweepHandler) Trigger(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "0"))
	dryRun, _ := strconv.ParseBool(c.Query("dry_run", "false"))

	report, err := h.scheduler.Run(c.Context(), days, dryRun)
	if err != nil {
		return serverError(c, "Sweep failed")
	}
	return c.JSON(report)
}
