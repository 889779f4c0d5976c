package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/dto"
	"github.com/spec-kit/triage-service/internal/service"
)

// RunsHandler serves the archived run history.
type RunsHandler struct {
	triage *service.TriageService
}

// NewRunsHandler constructs handler.
func NewRunsHandler(triageService *service.TriageService) *RunsHandler {
	return &RunsHandler{triage: triageService}
}

// List GET /api/v1/runs.
func (h *RunsHandler) List(c *fiber.Ctx) error {
	runs, err := h.triage.ListRuns(c.UserContext(), parseInt(c.Query("limit"), 20))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": runs})
}

// Tickets GET /api/v1/runs/:id/tickets.
func (h *RunsHandler) Tickets(c *fiber.Ctx) error {
	tickets, err := h.triage.RunTickets(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{Count: len(tickets), Tickets: tickets}})
}
