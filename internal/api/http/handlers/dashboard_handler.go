package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/dto"
	"github.com/spec-kit/triage-service/internal/assign"
	"github.com/spec-kit/triage-service/internal/service"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// DashboardHandler serves the aggregated dashboard payloads.
type DashboardHandler struct {
	triage *service.TriageService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(triageService *service.TriageService) *DashboardHandler {
	return &DashboardHandler{triage: triageService}
}

// Summary GET /api/v1/dashboard/summary.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.triage.Summarize(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Diagnostics GET /api/v1/dashboard/diagnostics. The weight slider sends
// skill_weight alone; the complement fills workload_weight unless the caller
// passed one explicitly.
func (h *DashboardHandler) Diagnostics(c *fiber.Ctx) error {
	ticketID := c.Query("ticket_id")
	if ticketID == "" {
		return apperrors.NewValidationError("ticket_id required", nil)
	}

	skill := parseFloat(c.Query("skill_weight"), 0)
	workload := parseFloat(c.Query("workload_weight"), 0)
	if skill < 0 || workload < 0 || skill > 1 || workload > 1 {
		return apperrors.NewValidationError("weights must be between 0 and 1", nil)
	}
	if skill > 0 && skill < 1 && c.Query("workload_weight") == "" {
		workload = 1 - skill
	}

	opts := assign.Options{
		SkillWeight:    skill,
		WorkloadWeight: workload,
		AllowOverflow:  parseBool(c.Query("allow_overflow")),
	}
	ticket, breakdown, err := h.triage.Diagnostics(c.UserContext(), ticketID, opts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DiagnosticsResponse{Ticket: ticket, Breakdown: breakdown}})
}
