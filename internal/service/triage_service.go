package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/assign"
	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/observability"
	"github.com/spec-kit/triage-service/internal/repository"
	"github.com/spec-kit/triage-service/internal/source"
	"github.com/spec-kit/triage-service/internal/storage"
	"github.com/spec-kit/triage-service/internal/triage"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// UnassignedBucket is the engineer label used for tickets nobody holds, in
// summaries and in the engineer filter of the ticket listing.
const UnassignedBucket = "Unassigned"

const actorSystem = "system"

// TriageService drives the pipeline: fetch, classify, assign, persist. One
// batch runs at a time; RunBatch and Reassign share a mutex so the sync
// worker and the API never interleave writes.
type TriageService struct {
	classifier triage.Classifier
	rules      triage.Classifier
	scorer     *assign.Scorer

	sources []source.Source
	mock    source.Source
	mockCfg config.MockConfig

	serviceNow    *source.ServiceNowSource
	jira          *source.JiraSource
	snWriteBack   bool
	jiraWriteBack bool

	snapshots   storage.SnapshotStore
	reassignLog *storage.ReassignLog
	archive     repository.ArchiveRepository
	cache       *repository.BatchCache

	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics

	mu sync.Mutex
}

// TriageDependencies bundles everything the pipeline touches. Archive may be
// nil (no Postgres DSN) and Cache may be nil or disconnected; both degrade
// to file-only persistence. ServiceNow and Jira are nil unless enabled.
type TriageDependencies struct {
	Config      *config.Config
	Classifier  triage.Classifier
	Scorer      *assign.Scorer
	Sources     []source.Source
	Mock        source.Source
	ServiceNow  *source.ServiceNowSource
	Jira        *source.JiraSource
	Snapshots   storage.SnapshotStore
	ReassignLog *storage.ReassignLog
	Archive     repository.ArchiveRepository
	Cache       *repository.BatchCache
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// NewTriageService creates the service.
func NewTriageService(deps TriageDependencies) *TriageService {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rules := triage.NewRuleClassifier()
	classifier := deps.Classifier
	if classifier == nil {
		classifier = rules
	}

	return &TriageService{
		classifier:    classifier,
		rules:         rules,
		scorer:        deps.Scorer,
		sources:       deps.Sources,
		mock:          deps.Mock,
		mockCfg:       cfg.Mock,
		serviceNow:    deps.ServiceNow,
		jira:          deps.Jira,
		snWriteBack:   deps.ServiceNow != nil && cfg.ServiceNow.WriteBack,
		jiraWriteBack: deps.Jira != nil && cfg.Jira.WriteBack,
		snapshots:     deps.Snapshots,
		reassignLog:   deps.ReassignLog,
		archive:       deps.Archive,
		cache:         deps.Cache,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		metrics:       deps.Metrics,
	}
}

// RunOptions tune one triage run.
type RunOptions struct {
	// Assign controls the assignment pass.
	Assign assign.Options

	// MockServiceNow and MockJira override the configured mock batch sizes
	// when positive. They only matter on runs that use mock data.
	MockServiceNow int
	MockJira       int

	// Actor is recorded on events and audit entries; empty means "system".
	Actor string
}

func (o RunOptions) actor() string {
	if strings.TrimSpace(o.Actor) == "" {
		return actorSystem
	}
	return o.Actor
}

// RunBatch executes one full pipeline pass and returns the processed batch.
// Source and persistence failures degrade with a logged warning; the run
// itself only fails on a broken deployment, never on upstream weather.
func (s *TriageService) RunBatch(ctx context.Context, opts RunOptions) (domain.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	actor := opts.actor()

	tickets, notes := s.fetchTickets(ctx, opts)
	s.classify(ctx, tickets)

	state := assign.NewWorkloadState(s.scorer.Roster())
	sorted, audits := s.scorer.AssignBatch(tickets, state, opts.Assign)

	batch := domain.Batch{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Method:      batchMethod(sorted),
		Tickets:     sorted,
		Workload:    state.Counts(),
		SourceNotes: notes,
	}

	s.recordAudits(audits, true, "")
	s.persistBatch(ctx, batch, actor)
	s.writeBack(ctx, batch)

	unassigned := batch.CountUnassigned()
	assigned := len(sorted) - unassigned
	duration := time.Since(start)
	s.metrics.RecordRun(duration)
	s.metrics.RecordAssignments(assigned, unassigned)

	s.publishEvent(ctx, events.EventBatchTriaged, "", actor, events.BatchTriagedPayload{
		RunID:       batch.RunID,
		Method:      batch.Method,
		TicketCount: len(sorted),
		Assigned:    assigned,
		Unassigned:  unassigned,
		Duration:    duration,
	})
	s.publishTicketEvents(ctx, sorted, audits, actor)

	s.logger.Info("triage run complete",
		zap.String("run_id", batch.RunID),
		zap.String("method", string(batch.Method)),
		zap.Int("tickets", len(sorted)),
		zap.Int("assigned", assigned),
		zap.Int("unassigned", unassigned),
		zap.Duration("duration", duration),
	)
	return batch, nil
}

// Reassign re-scores the latest batch with fresh workload counters and the
// given options, persists the result as a new snapshot, and audits every
// ticket. It fails only when there is no batch to work on.
func (s *TriageService) Reassign(ctx context.Context, opts assign.Options, actor string) (domain.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.LoadLatest(ctx)
	if err != nil {
		return domain.Batch{}, err
	}
	if current.Empty() {
		return domain.Batch{}, apperrors.NewNotFound("triage batch", nil)
	}
	if strings.TrimSpace(actor) == "" {
		actor = actorSystem
	}

	before := make(map[string]string, len(current.Tickets))
	for _, t := range current.Tickets {
		before[t.ID] = t.AssignedEngineer
	}

	state := assign.NewWorkloadState(s.scorer.Roster())
	sorted, audits := s.scorer.AssignBatch(current.Tickets, state, opts)

	batch := domain.Batch{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Method:      batchMethod(sorted),
		Tickets:     sorted,
		Workload:    state.Counts(),
	}

	changed, fallbacks := 0, 0
	for i, a := range audits {
		if a.IsFallback {
			fallbacks++
		}
		if before[a.TicketID] != sorted[i].AssignedEngineer {
			changed++
		}
	}

	effective := opts.Normalized()
	note := fmt.Sprintf("reassignment run (skill_weight=%.2f, workload_weight=%.2f)",
		effective.SkillWeight, effective.WorkloadWeight)
	s.recordAudits(audits, false, note)
	s.persistBatch(ctx, batch, actor)
	s.writeBack(ctx, batch)

	unassigned := batch.CountUnassigned()
	s.metrics.RecordAssignments(len(sorted)-unassigned, unassigned)

	s.publishEvent(ctx, events.EventBatchReassigned, "", actor, events.BatchReassignedPayload{
		RunID:          batch.RunID,
		SkillWeight:    effective.SkillWeight,
		WorkloadWeight: effective.WorkloadWeight,
		Changed:        changed,
		Fallbacks:      fallbacks,
	})
	s.publishTicketEvents(ctx, sorted, audits, actor)

	s.logger.Info("reassignment complete",
		zap.String("run_id", batch.RunID),
		zap.Int("tickets", len(sorted)),
		zap.Int("changed", changed),
		zap.Int("fallbacks", fallbacks),
		zap.Int("unassigned", unassigned),
	)
	return batch, nil
}

// Reprocess reloads the latest snapshot file, re-classifies every ticket
// with the rule-based strategy, and reassigns against reset workload
// counters. It reads the snapshot directly so stale cache entries cannot
// shadow what is actually on disk. It fails only when no snapshot exists.
func (s *TriageService) Reprocess(ctx context.Context, opts assign.Options, actor string) (domain.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.snapshots.Load("")
	if err != nil {
		return domain.Batch{}, err
	}
	if len(tickets) == 0 {
		return domain.Batch{}, apperrors.NewNotFound("triage batch", nil)
	}
	if strings.TrimSpace(actor) == "" {
		actor = actorSystem
	}

	for i := range tickets {
		result, _ := s.rules.Classify(ctx, tickets[i].Title, tickets[i].Description)
		tickets[i].Category = result.Category
		tickets[i].Priority = result.Priority
		tickets[i].RequiredSkills = result.Skills
		tickets[i].Summary = result.Summary
		tickets[i].Method = result.Method
		s.metrics.RecordTriaged(string(result.Method))
	}

	state := assign.NewWorkloadState(s.scorer.Roster())
	sorted, audits := s.scorer.AssignBatch(tickets, state, opts)

	batch := domain.Batch{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Method:      domain.TriageMethodRules,
		Tickets:     sorted,
		Workload:    state.Counts(),
	}

	s.recordAudits(audits, false, "reprocessed from storage")
	s.persistBatch(ctx, batch, actor)

	unassigned := batch.CountUnassigned()
	assigned := len(sorted) - unassigned
	s.metrics.RecordAssignments(assigned, unassigned)

	s.publishEvent(ctx, events.EventBatchTriaged, "", actor, events.BatchTriagedPayload{
		RunID:       batch.RunID,
		Method:      batch.Method,
		TicketCount: len(sorted),
		Assigned:    assigned,
		Unassigned:  unassigned,
	})
	s.publishTicketEvents(ctx, sorted, audits, actor)

	s.logger.Info("reprocess complete",
		zap.String("run_id", batch.RunID),
		zap.Int("tickets", len(sorted)),
		zap.Int("assigned", assigned),
		zap.Int("unassigned", unassigned),
	)
	return batch, nil
}

// LoadLatest returns the most recent batch, preferring the cache and falling
// back to the latest snapshot file. A missing or unreadable snapshot yields
// an empty batch, not an error; the dashboard starts blank either way.
func (s *TriageService) LoadLatest(ctx context.Context) (domain.Batch, error) {
	if batch, ok := s.cache.Latest(ctx); ok {
		return batch, nil
	}

	tickets, err := s.snapshots.Load("")
	if err != nil {
		s.logger.Warn("snapshot load failed, serving empty batch", zap.Error(err))
		return domain.Batch{}, nil
	}
	return batchFromTickets(tickets), nil
}

// TicketFilter narrows the ticket listing. Matching is case-insensitive;
// Engineer accepts the UnassignedBucket label to select unassigned tickets.
type TicketFilter struct {
	Priority string
	Category string
	Engineer string
	Limit    int
}

func (f TicketFilter) matches(t domain.Ticket) bool {
	if f.Priority != "" && !strings.EqualFold(f.Priority, string(t.Priority)) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, string(t.Category)) {
		return false
	}
	if f.Engineer != "" {
		if strings.EqualFold(f.Engineer, UnassignedBucket) {
			return !t.Assigned()
		}
		return strings.EqualFold(f.Engineer, t.AssignedEngineer)
	}
	return true
}

// Tickets returns the latest batch filtered down. A zero Limit means all.
func (s *TriageService) Tickets(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	batch, err := s.LoadLatest(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Ticket, 0, len(batch.Tickets))
	for _, t := range batch.Tickets {
		if !filter.matches(t) {
			continue
		}
		out = append(out, t)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// Summary is the dashboard metrics row plus the count maps behind the charts.
type Summary struct {
	Total        int                 `json:"total"`
	HighPriority int                 `json:"high_priority"`
	Unassigned   int                 `json:"unassigned"`
	Categories   int                 `json:"categories"`
	ByCategory   map[string]int      `json:"by_category"`
	ByPriority   map[string]int      `json:"by_priority"`
	ByEngineer   map[string]int      `json:"by_engineer"`
	RunID        string              `json:"run_id,omitempty"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Method       domain.TriageMethod `json:"triage_method,omitempty"`
	SourceNotes  []string            `json:"source_notes,omitempty"`
}

// Summarize aggregates the latest batch for the dashboard.
func (s *TriageService) Summarize(ctx context.Context) (Summary, error) {
	batch, err := s.LoadLatest(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Total:       len(batch.Tickets),
		ByCategory:  make(map[string]int),
		ByPriority:  make(map[string]int),
		ByEngineer:  make(map[string]int),
		RunID:       batch.RunID,
		GeneratedAt: batch.GeneratedAt,
		Method:      batch.Method,
		SourceNotes: batch.SourceNotes,
	}

	// The workload chart shows the whole roster, zero counts included.
	for _, eng := range s.scorer.Roster() {
		summary.ByEngineer[eng.Name] = 0
	}

	for _, t := range batch.Tickets {
		summary.ByCategory[string(t.Category)]++
		summary.ByPriority[string(t.Priority)]++
		if t.Priority == domain.TicketPriorityHigh {
			summary.HighPriority++
		}
		if t.Assigned() {
			summary.ByEngineer[t.AssignedEngineer]++
		} else {
			summary.Unassigned++
			summary.ByEngineer[UnassignedBucket]++
		}
	}
	summary.Categories = len(summary.ByCategory)
	return summary, nil
}

// Diagnostics scores every roster engineer against one ticket from the
// latest batch using the current workload, without changing anything.
func (s *TriageService) Diagnostics(ctx context.Context, ticketID string, opts assign.Options) (domain.Ticket, []assign.ScoreBreakdown, error) {
	batch, err := s.LoadLatest(ctx)
	if err != nil {
		return domain.Ticket{}, nil, err
	}

	for _, t := range batch.Tickets {
		if t.ID != ticketID {
			continue
		}
		state := assign.WorkloadFromCounts(batch.Workload)
		return t, s.scorer.Explain(t, state, opts), nil
	}
	return domain.Ticket{}, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
}

// EngineerStatus is one roster row with its load from the latest batch.
type EngineerStatus struct {
	Name         string   `json:"name"`
	Skills       []string `json:"skills"`
	Availability string   `json:"availability"`
	MaxWorkload  int      `json:"max_workload"`
	CurrentLoad  int      `json:"current_load"`
}

// EngineerStatuses returns the roster with current workloads.
func (s *TriageService) EngineerStatuses(ctx context.Context) ([]EngineerStatus, error) {
	batch, err := s.LoadLatest(ctx)
	if err != nil {
		return nil, err
	}

	roster := s.scorer.Roster()
	statuses := make([]EngineerStatus, 0, len(roster))
	for _, eng := range roster {
		statuses = append(statuses, EngineerStatus{
			Name:         eng.Name,
			Skills:       eng.Skills,
			Availability: eng.Availability,
			MaxWorkload:  eng.EffectiveMaxWorkload(),
			CurrentLoad:  batch.Workload[eng.Name],
		})
	}
	return statuses, nil
}

// ListRuns returns archived run summaries, newest first. Without a
// configured archive the list is empty.
func (s *TriageService) ListRuns(ctx context.Context, limit int) ([]repository.RunSummary, error) {
	if s.archive == nil {
		return []repository.RunSummary{}, nil
	}
	return s.archive.ListRuns(ctx, limit)
}

// RunTickets returns the archived tickets of one run.
func (s *TriageService) RunTickets(ctx context.Context, runID string) ([]domain.Ticket, error) {
	if s.archive == nil {
		return nil, apperrors.NewNotFound("run", map[string]any{"run_id": runID})
	}
	return s.archive.GetRunTickets(ctx, runID)
}

// fetchTickets runs every enabled source. Mock data is used only when no
// source is enabled or every enabled source failed; an enabled source
// returning zero tickets is success, not a reason to fall back.
func (s *TriageService) fetchTickets(ctx context.Context, opts RunOptions) ([]domain.Ticket, []string) {
	var tickets []domain.Ticket
	var notes []string

	failed := 0
	for _, src := range s.sources {
		fetched, err := src.Fetch(ctx)
		if err != nil {
			failed++
			s.metrics.RecordSourceFailure(src.Name())
			s.logger.Warn("source fetch failed", zap.String("source", src.Name()), zap.Error(err))
			notes = append(notes, fmt.Sprintf("%s: fetch failed: %v", src.Name(), err))
			continue
		}
		tickets = append(tickets, fetched...)
		notes = append(notes, fmt.Sprintf("%s: fetched %d tickets", src.Name(), len(fetched)))
	}
	if len(s.sources) > 0 && failed < len(s.sources) {
		return tickets, notes
	}

	mock := s.mockSource(opts)
	fetched, err := mock.Fetch(ctx)
	if err != nil {
		s.metrics.RecordSourceFailure(mock.Name())
		s.logger.Error("mock generation failed", zap.Error(err))
		notes = append(notes, fmt.Sprintf("%s: fetch failed: %v", mock.Name(), err))
		return nil, notes
	}
	notes = append(notes, fmt.Sprintf("%s: generated %d tickets", mock.Name(), len(fetched)))
	return fetched, notes
}

func (s *TriageService) mockSource(opts RunOptions) source.Source {
	if opts.MockServiceNow > 0 || opts.MockJira > 0 {
		cfg := s.mockCfg
		if opts.MockServiceNow > 0 {
			cfg.ServiceNowCount = opts.MockServiceNow
		}
		if opts.MockJira > 0 {
			cfg.JiraCount = opts.MockJira
		}
		return source.NewMockSource(cfg)
	}
	if s.mock != nil {
		return s.mock
	}
	return source.NewMockSource(s.mockCfg)
}

// classify stamps arrival order and triages each ticket. A classifier error
// drops that ticket to the rule path; one bad ticket never aborts the batch.
func (s *TriageService) classify(ctx context.Context, tickets []domain.Ticket) {
	for i := range tickets {
		tickets[i].ArrivalIndex = i

		result, err := s.classifier.Classify(ctx, tickets[i].Title, tickets[i].Description)
		if err != nil {
			s.logger.Warn("classification failed, using rules",
				zap.String("ticket_id", tickets[i].ID),
				zap.Error(err),
			)
			result, _ = s.rules.Classify(ctx, tickets[i].Title, tickets[i].Description)
		}

		tickets[i].Category = result.Category
		tickets[i].Priority = result.Priority
		tickets[i].RequiredSkills = result.Skills
		tickets[i].Summary = result.Summary
		tickets[i].Method = result.Method
		s.metrics.RecordTriaged(string(result.Method))
	}
}

// persistBatch writes the snapshot, archives the run, and refreshes the
// cache. Each layer degrades independently with a logged warning.
func (s *TriageService) persistBatch(ctx context.Context, batch domain.Batch, actor string) {
	path, err := s.snapshots.Save(batch.Tickets, "")
	if err != nil {
		s.logger.Error("snapshot save failed", zap.String("run_id", batch.RunID), zap.Error(err))
	} else if path != "" {
		s.publishEvent(ctx, events.EventSnapshotSaved, "", actor, events.SnapshotSavedPayload{
			Path:        path,
			Format:      strings.TrimPrefix(filepath.Ext(path), "."),
			TicketCount: len(batch.Tickets),
		})
	}

	if s.archive != nil {
		if err := s.archive.SaveRun(ctx, batch, path); err != nil {
			s.logger.Warn("run archive failed", zap.String("run_id", batch.RunID), zap.Error(err))
		}
	}
	if err := s.cache.Store(ctx, batch); err != nil {
		s.logger.Warn("batch cache store failed", zap.Error(err))
	}
}

// writeBack pushes assignments to the upstream systems when configured.
// Failures are logged per ticket and never affect the batch.
func (s *TriageService) writeBack(ctx context.Context, batch domain.Batch) {
	if !s.snWriteBack && !s.jiraWriteBack {
		return
	}

	for _, t := range batch.Tickets {
		if !t.Assigned() {
			continue
		}
		note := fmt.Sprintf("Triaged as %s/%s, assigned to %s", t.Category, t.Priority, t.AssignedEngineer)

		switch t.Source {
		case domain.TicketSourceServiceNow:
			if !s.snWriteBack {
				continue
			}
			fields := map[string]any{"assigned_to": t.AssignedEngineer, "work_notes": note}
			if err := s.serviceNow.Update(ctx, t.ExternalID, fields); err != nil {
				s.logger.Warn("servicenow write-back failed", zap.String("ticket_id", t.ID), zap.Error(err))
			}
		case domain.TicketSourceJira:
			if !s.jiraWriteBack {
				continue
			}
			if err := s.jira.AddComment(ctx, t.ID, note); err != nil {
				s.logger.Warn("jira write-back failed", zap.String("ticket_id", t.ID), zap.Error(err))
			}
		}
	}
}

// recordAudits appends assignment decisions to the reassignment log. Runs
// record only fallbacks; explicit reassignments record every ticket.
func (s *TriageService) recordAudits(audits []assign.Assignment, onlyFallbacks bool, defaultReason string) {
	if s.reassignLog == nil {
		return
	}
	for _, a := range audits {
		if onlyFallbacks && !a.IsFallback {
			continue
		}
		reason := a.Reason
		if reason == "" {
			reason = defaultReason
		}
		entry := domain.AssignmentAudit{
			TicketID:         a.TicketID,
			AssignedEngineer: a.Engineer,
			IsFallback:       a.IsFallback,
			Reason:           reason,
		}
		if err := s.reassignLog.Record(entry); err != nil {
			s.logger.Warn("reassign log append failed", zap.String("ticket_id", a.TicketID), zap.Error(err))
		}
	}
}

func (s *TriageService) publishTicketEvents(ctx context.Context, tickets []domain.Ticket, audits []assign.Assignment, actor string) {
	for i, a := range audits {
		t := tickets[i]
		if a.Engineer != "" {
			s.publishEvent(ctx, events.EventTicketAssigned, a.TicketID, actor, events.TicketAssignedPayload{
				Engineer:   a.Engineer,
				Score:      a.Score,
				IsFallback: a.IsFallback,
				Priority:   t.Priority,
				Category:   t.Category,
			})
			continue
		}
		s.publishEvent(ctx, events.EventTicketUnassigned, a.TicketID, actor, events.TicketUnassignedPayload{
			Reason:   a.Reason,
			Priority: t.Priority,
			Category: t.Category,
		})
	}
}

func (s *TriageService) publishEvent(ctx context.Context, eventType events.EventType, ticketID, actor string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	// dispatch failures must not fail the pipeline
	_ = s.dispatcher.Publish(ctx, event)
}

// batchMethod is AI_MODEL when at least one ticket went through the model.
func batchMethod(tickets []domain.Ticket) domain.TriageMethod {
	for _, t := range tickets {
		if t.Method == domain.TriageMethodAI {
			return domain.TriageMethodAI
		}
	}
	return domain.TriageMethodRules
}

// batchFromTickets rebuilds batch state from a bare snapshot. The run ID and
// generation time are unknown for snapshots written by older processes.
func batchFromTickets(tickets []domain.Ticket) domain.Batch {
	workload := make(map[string]int)
	for _, t := range tickets {
		if t.Assigned() {
			workload[t.AssignedEngineer]++
		}
	}
	return domain.Batch{
		Method:   batchMethod(tickets),
		Tickets:  tickets,
		Workload: workload,
	}
}
