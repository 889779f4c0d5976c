package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/dto"
	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/service"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// TriageHandler serves the admin pipeline operations.
type TriageHandler struct {
	triage *service.TriageService
}

// NewTriageHandler constructs handler.
func NewTriageHandler(triageService *service.TriageService) *TriageHandler {
	return &TriageHandler{triage: triageService}
}

// Run POST /api/v1/triage/run. The body is optional; counts override the
// configured mock batch sizes.
func (h *TriageHandler) Run(c *fiber.Ctx) error {
	var req dto.RunTriageRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if req.CountServiceNow < 0 || req.CountJira < 0 {
		return apperrors.NewValidationError("counts must be non-negative", nil)
	}

	batch, err := h.triage.RunBatch(c.UserContext(), service.RunOptions{
		MockServiceNow: req.CountServiceNow,
		MockJira:       req.CountJira,
		Actor:          actorFromContext(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BatchFromDomain(batch)})
}

// Reassign POST /api/v1/triage/reassign.
func (h *TriageHandler) Reassign(c *fiber.Ctx) error {
	var req dto.ReassignRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if req.SkillWeight < 0 || req.WorkloadWeight < 0 || req.SkillWeight > 1 || req.WorkloadWeight > 1 {
		return apperrors.NewValidationError("weights must be between 0 and 1", nil)
	}

	batch, err := h.triage.Reassign(c.UserContext(), req.Options(), actorFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BatchFromDomain(batch)})
}

func actorFromContext(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return principal.Subject
	}
	return ""
}
