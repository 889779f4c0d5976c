package handlers

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/dto"
	"github.com/spec-kit/triage-service/internal/service"
	"github.com/spec-kit/triage-service/internal/storage"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// TicketsHandler serves the processed ticket listing and the CSV export.
type TicketsHandler struct {
	triage *service.TriageService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(triageService *service.TriageService) *TicketsHandler {
	return &TicketsHandler{triage: triageService}
}

// List GET /api/v1/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter := service.TicketFilter{
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Engineer: c.Query("engineer"),
		Limit:    parseInt(c.Query("limit"), 0),
	}
	tickets, err := h.triage.Tickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{Count: len(tickets), Tickets: tickets}})
}

// ExportCSV GET /api/v1/export/tickets.csv.
func (h *TicketsHandler) ExportCSV(c *fiber.Ctx) error {
	tickets, err := h.triage.Tickets(c.UserContext(), service.TicketFilter{})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := storage.WriteCSV(&buf, tickets); err != nil {
		return apperrors.NewStorageError("export", err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="tickets.csv"`)
	return c.Send(buf.Bytes())
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseFloat(val string, def float64) float64 {
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def
	}
	return parsed
}

func parseBool(val string) bool {
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false
	}
	return parsed
}
