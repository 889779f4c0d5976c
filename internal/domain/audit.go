package domain

import "time"

// AuditAction captures what kind of action an audit entry records.
type AuditAction string

const (
	AuditActionTriageAndAssign    AuditAction = "triage_and_assign"
	AuditActionReassign           AuditAction = "reassign"
	AuditActionFallbackAssignment AuditAction = "fallback_assignment"
	AuditActionSnapshotSaved      AuditAction = "snapshot_saved"
)

// AssignmentAudit is an immutable audit trail entry for assignment decisions
// that deviate from the plain scoring path, and for explicit reassign runs.
type AssignmentAudit struct {
	Timestamp        time.Time `json:"timestamp"`
	TicketID         string    `json:"ticket_id"`
	AssignedEngineer string    `json:"assigned_engineer"`
	IsFallback       bool      `json:"is_fallback"`
	Reason           string    `json:"reason"`
}
