package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/service"
)

// EngineersHandler serves the roster view.
type EngineersHandler struct {
	triage *service.TriageService
}

// NewEngineersHandler constructs handler.
func NewEngineersHandler(triageService *service.TriageService) *EngineersHandler {
	return &EngineersHandler{triage: triageService}
}

// List GET /api/v1/engineers.
func (h *EngineersHandler) List(c *fiber.Ctx) error {
	statuses, err := h.triage.EngineerStatuses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statuses})
}
