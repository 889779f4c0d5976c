package dto

import (
	"time"

	"github.com/spec-kit/triage-service/internal/assign"
	"github.com/spec-kit/triage-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued admin token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RunTriageRequest payload. Zero counts keep the configured mock sizes.
type RunTriageRequest struct {
	CountServiceNow int `json:"count_servicenow"`
	CountJira       int `json:"count_jira"`
}

// ReassignRequest payload. Non-positive weights fall back to the defaults.
type ReassignRequest struct {
	SkillWeight         float64 `json:"skill_weight"`
	WorkloadWeight      float64 `json:"workload_weight"`
	AllowOverflow       bool    `json:"allow_overflow"`
	FallbackLeastLoaded bool    `json:"fallback_least_loaded"`
}

// Options maps the request onto scorer options.
func (r ReassignRequest) Options() assign.Options {
	return assign.Options{
		SkillWeight:         r.SkillWeight,
		WorkloadWeight:      r.WorkloadWeight,
		AllowOverflow:       r.AllowOverflow,
		FallbackLeastLoaded: r.FallbackLeastLoaded,
	}
}

// BatchResponse describes one processed run.
type BatchResponse struct {
	RunID       string              `json:"run_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Method      domain.TriageMethod `json:"triage_method"`
	TicketCount int                 `json:"ticket_count"`
	Assigned    int                 `json:"assigned"`
	Unassigned  int                 `json:"unassigned"`
	Tickets     []domain.Ticket     `json:"tickets"`
	Workload    map[string]int      `json:"workload"`
	SourceNotes []string            `json:"source_notes,omitempty"`
}

// BatchFromDomain maps a batch onto its response shape.
func BatchFromDomain(b domain.Batch) BatchResponse {
	unassigned := b.CountUnassigned()
	return BatchResponse{
		RunID:       b.RunID,
		GeneratedAt: b.GeneratedAt,
		Method:      b.Method,
		TicketCount: len(b.Tickets),
		Assigned:    len(b.Tickets) - unassigned,
		Unassigned:  unassigned,
		Tickets:     b.Tickets,
		Workload:    b.Workload,
		SourceNotes: b.SourceNotes,
	}
}

// TicketListResponse wraps a filtered ticket listing.
type TicketListResponse struct {
	Count   int             `json:"count"`
	Tickets []domain.Ticket `json:"tickets"`
}

// DiagnosticsResponse explains how the roster scores against one ticket.
type DiagnosticsResponse struct {
	Ticket    domain.Ticket           `json:"ticket"`
	Breakdown []assign.ScoreBreakdown `json:"breakdown"`
}
