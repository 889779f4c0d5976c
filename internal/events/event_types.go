package events

import (
	"time"

	"github.com/spec-kit/triage-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBatchTriaged     EventType = "batch_triaged"
	EventBatchReassigned  EventType = "batch_reassigned"
	EventTicketAssigned   EventType = "ticket_assigned"
	EventTicketUnassigned EventType = "ticket_unassigned"
	EventSnapshotSaved    EventType = "snapshot_saved"
)

// Event represents a triage pipeline event emitted by services. TicketID is
// empty for batch-level events.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BatchTriagedPayload payload.
type BatchTriagedPayload struct {
	RunID       string              `json:"run_id"`
	Method      domain.TriageMethod `json:"method"`
	TicketCount int                 `json:"ticket_count"`
	Assigned    int                 `json:"assigned"`
	Unassigned  int                 `json:"unassigned"`
	Duration    time.Duration       `json:"duration"`
}

// BatchReassignedPayload payload.
type BatchReassignedPayload struct {
	RunID          string  `json:"run_id"`
	SkillWeight    float64 `json:"skill_weight"`
	WorkloadWeight float64 `json:"workload_weight"`
	Changed        int     `json:"changed"`
	Fallbacks      int     `json:"fallbacks"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	Engineer   string                `json:"engineer"`
	Score      float64               `json:"score"`
	IsFallback bool                  `json:"is_fallback"`
	Priority   domain.TicketPriority `json:"priority"`
	Category   domain.Category       `json:"category"`
}

// TicketUnassignedPayload payload.
type TicketUnassignedPayload struct {
	Reason   string                `json:"reason"`
	Priority domain.TicketPriority `json:"priority"`
	Category domain.Category       `json:"category"`
}

// SnapshotSavedPayload payload.
type SnapshotSavedPayload struct {
	Path        string `json:"path"`
	Format      string `json:"format"`
	TicketCount int    `json:"ticket_count"`
}
