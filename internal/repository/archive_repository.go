package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/triage-service/internal/domain"
)

// RunSummary is one archived run row for the runs listing.
type RunSummary struct {
	ID              string    `json:"id"`
	GeneratedAt     time.Time `json:"generated_at"`
	Method          string    `json:"triage_method"`
	TicketCount     int       `json:"ticket_count"`
	AssignedCount   int       `json:"assigned_count"`
	UnassignedCount int       `json:"unassigned_count"`
	SnapshotPath    string    `json:"snapshot_path,omitempty"`
}

// ArchiveRepository persists processed runs in Postgres for history queries
// that outlive the snapshot files.
type ArchiveRepository interface {
	SaveRun(ctx context.Context, batch domain.Batch, snapshotPath string) error
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	GetRunTickets(ctx context.Context, runID string) ([]domain.Ticket, error)
}

type archiveRepository struct {
	pool *pgxpool.Pool
}

// NewArchiveRepository instantiates repository.
func NewArchiveRepository(pool *pgxpool.Pool) ArchiveRepository {
	return &archiveRepository{pool: pool}
}

func (r *archiveRepository) SaveRun(ctx context.Context, batch domain.Batch, snapshotPath string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	unassigned := batch.CountUnassigned()
	const runQuery = `
        INSERT INTO triage_runs (id, generated_at, method, ticket_count, assigned_count, unassigned_count, snapshot_path)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	if _, err := tx.Exec(ctx, runQuery,
		batch.RunID,
		batch.GeneratedAt,
		string(batch.Method),
		len(batch.Tickets),
		len(batch.Tickets)-unassigned,
		unassigned,
		snapshotPath,
	); err != nil {
		return err
	}

	const ticketQuery = `
        INSERT INTO triage_tickets (run_id, ticket_id, external_id, source, title, description,
            native_priority, native_state, issue_type, reporter, created_at, arrival_index,
            category, priority, required_skills, summary, triage_method, assigned_engineer)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`
	for _, t := range batch.Tickets {
		var createdAt *time.Time
		if !t.CreatedAt.IsZero() {
			createdAt = &t.CreatedAt
		}
		skills := t.RequiredSkills
		if skills == nil {
			skills = []string{}
		}
		if _, err := tx.Exec(ctx, ticketQuery,
			batch.RunID,
			t.ID,
			t.ExternalID,
			string(t.Source),
			t.Title,
			t.Description,
			t.NativePriority,
			t.NativeState,
			t.IssueType,
			t.Reporter,
			createdAt,
			t.ArrivalIndex,
			string(t.Category),
			string(t.Priority),
			skills,
			t.Summary,
			string(t.Method),
			t.AssignedEngineer,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *archiveRepository) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
        SELECT id, generated_at, method, ticket_count, assigned_count, unassigned_count, snapshot_path
        FROM triage_runs ORDER BY generated_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RunSummary
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(
			&run.ID,
			&run.GeneratedAt,
			&run.Method,
			&run.TicketCount,
			&run.AssignedCount,
			&run.UnassignedCount,
			&run.SnapshotPath,
		); err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	return result, rows.Err()
}

func (r *archiveRepository) GetRunTickets(ctx context.Context, runID string) ([]domain.Ticket, error) {
	const query = `
        SELECT ticket_id, external_id, source, title, description, native_priority, native_state,
               issue_type, reporter, created_at, arrival_index, category, priority, required_skills,
               summary, triage_method, assigned_engineer
        FROM triage_tickets WHERE run_id=$1 ORDER BY arrival_index`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var (
			ticket    domain.Ticket
			createdAt *time.Time
		)
		if err := rows.Scan(
			&ticket.ID,
			&ticket.ExternalID,
			&ticket.Source,
			&ticket.Title,
			&ticket.Description,
			&ticket.NativePriority,
			&ticket.NativeState,
			&ticket.IssueType,
			&ticket.Reporter,
			&createdAt,
			&ticket.ArrivalIndex,
			&ticket.Category,
			&ticket.Priority,
			&ticket.RequiredSkills,
			&ticket.Summary,
			&ticket.Method,
			&ticket.AssignedEngineer,
		); err != nil {
			return nil, err
		}
		if createdAt != nil {
			ticket.CreatedAt = *createdAt
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
