package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/storage"
)

// AuditService writes batch-level pipeline events to the action log, one
// JSONL line per triage run, reassignment, and snapshot.
type AuditService struct {
	log    *storage.ActionLog
	logger *zap.Logger
}

// NewAuditService creates the subscriber.
func NewAuditService(log *storage.ActionLog, logger *zap.Logger) *AuditService {
	return &AuditService{log: log, logger: logger}
}

// RegisterHandlers subscribes to the batch-level events.
func (a *AuditService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventBatchTriaged, a.handleBatchTriaged)
	dispatcher.Subscribe(events.EventBatchReassigned, a.handleBatchReassigned)
	dispatcher.Subscribe(events.EventSnapshotSaved, a.handleSnapshotSaved)
}

func (a *AuditService) handleBatchTriaged(_ context.Context, event events.Event) error {
	entry := map[string]any{
		"action": string(domain.AuditActionTriageAndAssign),
		"actor":  event.Actor,
	}
	if p, ok := event.Payload.(events.BatchTriagedPayload); ok {
		entry["run_id"] = p.RunID
		entry["tickets_processed"] = p.TicketCount
		entry["method"] = string(p.Method)
		entry["assigned"] = p.Assigned
		entry["unassigned"] = p.Unassigned
	}
	return a.append(entry)
}

func (a *AuditService) handleBatchReassigned(_ context.Context, event events.Event) error {
	entry := map[string]any{
		"action": string(domain.AuditActionReassign),
		"actor":  event.Actor,
	}
	if p, ok := event.Payload.(events.BatchReassignedPayload); ok {
		entry["run_id"] = p.RunID
		entry["skill_weight"] = p.SkillWeight
		entry["workload_weight"] = p.WorkloadWeight
		entry["changed"] = p.Changed
		entry["fallbacks"] = p.Fallbacks
	}
	return a.append(entry)
}

func (a *AuditService) handleSnapshotSaved(_ context.Context, event events.Event) error {
	entry := map[string]any{
		"action": string(domain.AuditActionSnapshotSaved),
		"actor":  event.Actor,
	}
	if p, ok := event.Payload.(events.SnapshotSavedPayload); ok {
		entry["path"] = p.Path
		entry["format"] = p.Format
		entry["tickets"] = p.TicketCount
	}
	return a.append(entry)
}

func (a *AuditService) append(entry map[string]any) error {
	if a.log == nil {
		return nil
	}
	if err := a.log.Append(entry); err != nil {
		a.logger.Warn("action log append failed", zap.Error(err))
		return err
	}
	return nil
}
