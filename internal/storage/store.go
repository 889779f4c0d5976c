package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

const snapshotPrefix = "tickets_"

// SnapshotStore persists triaged batches as timestamped snapshot files and
// reads them back for the dashboard.
type SnapshotStore interface {
	// Save writes the batch under the given base name, or a generated
	// tickets_<timestamp> name when empty. An empty batch writes nothing
	// and returns an empty path.
	Save(tickets []domain.Ticket, name string) (string, error)
	// Load reads the named snapshot, or the latest one when name is empty.
	// No snapshots existing yet is not an error; it yields an empty batch.
	Load(name string) ([]domain.Ticket, error)
}

// FileStore keeps snapshots in a local directory, one file per processed
// batch, in the configured format.
type FileStore struct {
	dir    string
	format string
	logger *zap.Logger
}

// NewFileStore creates the data directory and returns the store.
func NewFileStore(cfg config.StorageConfig, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, apperrors.NewStorageError("init", err)
	}
	return &FileStore{dir: cfg.Directory, format: cfg.Format, logger: logger}, nil
}

func (s *FileStore) Save(tickets []domain.Ticket, name string) (string, error) {
	if len(tickets) == 0 {
		s.logger.Warn("no tickets to save")
		return "", nil
	}
	if name == "" {
		name = snapshotPrefix + time.Now().Format("20060102_150405")
	}

	var path string
	var err error
	if s.format == config.FormatParquet {
		rows := make([]snapshotRow, len(tickets))
		for i, ticket := range tickets {
			rows[i] = toSnapshotRow(ticket)
		}
		path = filepath.Join(s.dir, name+".parquet")
		err = writeParquetSnapshot(path, rows)
	} else {
		path = filepath.Join(s.dir, name+".csv")
		err = writeCSVSnapshot(path, tickets)
	}
	if err != nil {
		return "", apperrors.NewStorageError("save", err)
	}

	s.logger.Info("tickets saved", zap.String("path", path), zap.Int("count", len(tickets)))
	return path, nil
}

func (s *FileStore) Load(name string) ([]domain.Ticket, error) {
	if name == "" {
		latest, err := s.latestSnapshot()
		if err != nil {
			return nil, err
		}
		if latest == "" {
			s.logger.Warn("no saved tickets found")
			return nil, nil
		}
		name = latest
	}

	path := name
	if !strings.ContainsRune(name, os.PathSeparator) && !strings.Contains(name, "/") {
		path = filepath.Join(s.dir, name)
	}

	var rows []snapshotRow
	var err error
	if strings.HasSuffix(path, ".parquet") {
		rows, err = readParquetSnapshot(path)
	} else {
		rows, err = readCSVSnapshot(path)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("load", err)
	}

	tickets := make([]domain.Ticket, len(rows))
	for i, row := range rows {
		tickets[i] = row.ticket()
	}
	s.logger.Info("tickets loaded", zap.String("path", path), zap.Int("count", len(tickets)))
	return tickets, nil
}

// latestSnapshot returns the lexically greatest snapshot filename; the
// timestamped naming scheme makes that the most recent one.
func (s *FileStore) latestSnapshot() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", apperrors.NewStorageError("list", err)
	}

	latest := ""
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, snapshotPrefix) {
			continue
		}
		if !strings.HasSuffix(name, ".parquet") && !strings.HasSuffix(name, ".csv") {
			continue
		}
		if name > latest {
			latest = name
		}
	}
	return latest, nil
}

// snapshotRow flattens a Ticket into scalar columns shared by both codecs.
// Skills are comma-joined and timestamps stored as RFC3339 strings so the
// two formats stay interchangeable.
type snapshotRow struct {
	ID               string `parquet:"id"`
	ExternalID       string `parquet:"external_id"`
	Source           string `parquet:"source"`
	Title            string `parquet:"title"`
	Description      string `parquet:"description"`
	NativePriority   string `parquet:"native_priority"`
	NativeState      string `parquet:"native_state"`
	IssueType        string `parquet:"issue_type"`
	Reporter         string `parquet:"reporter"`
	CreatedAt        string `parquet:"created_at"`
	ArrivalIndex     int64  `parquet:"arrival_index"`
	Category         string `parquet:"category"`
	Priority         string `parquet:"priority"`
	RequiredSkills   string `parquet:"required_skills"`
	Summary          string `parquet:"summary"`
	TriageMethod     string `parquet:"triage_method"`
	AssignedEngineer string `parquet:"assigned_engineer"`
}

func toSnapshotRow(t domain.Ticket) snapshotRow {
	createdAt := ""
	if !t.CreatedAt.IsZero() {
		createdAt = t.CreatedAt.Format(time.RFC3339Nano)
	}
	return snapshotRow{
		ID:               t.ID,
		ExternalID:       t.ExternalID,
		Source:           string(t.Source),
		Title:            t.Title,
		Description:      t.Description,
		NativePriority:   t.NativePriority,
		NativeState:      t.NativeState,
		IssueType:        t.IssueType,
		Reporter:         t.Reporter,
		CreatedAt:        createdAt,
		ArrivalIndex:     int64(t.ArrivalIndex),
		Category:         string(t.Category),
		Priority:         string(t.Priority),
		RequiredSkills:   strings.Join(t.RequiredSkills, ","),
		Summary:          t.Summary,
		TriageMethod:     string(t.Method),
		AssignedEngineer: t.AssignedEngineer,
	}
}

func (r snapshotRow) ticket() domain.Ticket {
	var createdAt time.Time
	if r.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
			createdAt = ts
		}
	}
	var skills []string
	if r.RequiredSkills != "" {
		skills = strings.Split(r.RequiredSkills, ",")
	}
	return domain.Ticket{
		ID:               r.ID,
		ExternalID:       r.ExternalID,
		Source:           domain.TicketSource(r.Source),
		Title:            r.Title,
		Description:      r.Description,
		NativePriority:   r.NativePriority,
		NativeState:      r.NativeState,
		IssueType:        r.IssueType,
		Reporter:         r.Reporter,
		CreatedAt:        createdAt,
		ArrivalIndex:     int(r.ArrivalIndex),
		Category:         domain.Category(r.Category),
		Priority:         domain.TicketPriority(r.Priority),
		RequiredSkills:   skills,
		Summary:          r.Summary,
		Method:           domain.TriageMethod(r.TriageMethod),
		AssignedEngineer: r.AssignedEngineer,
	}
}

// snapshotColumns is the CSV header, kept in the same order as snapshotRow.
var snapshotColumns = []string{
	"id",
	"external_id",
	"source",
	"title",
	"description",
	"native_priority",
	"native_state",
	"issue_type",
	"reporter",
	"created_at",
	"arrival_index",
	"category",
	"priority",
	"required_skills",
	"summary",
	"triage_method",
	"assigned_engineer",
}

func (r snapshotRow) record() []string {
	return []string{
		r.ID,
		r.ExternalID,
		r.Source,
		r.Title,
		r.Description,
		r.NativePriority,
		r.NativeState,
		r.IssueType,
		r.Reporter,
		r.CreatedAt,
		strconv.FormatInt(r.ArrivalIndex, 10),
		r.Category,
		r.Priority,
		r.RequiredSkills,
		r.Summary,
		r.TriageMethod,
		r.AssignedEngineer,
	}
}

func rowFromRecord(header map[string]int, record []string) (snapshotRow, error) {
	field := func(name string) string {
		idx, ok := header[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}
	arrival, err := strconv.ParseInt(field("arrival_index"), 10, 64)
	if err != nil && field("arrival_index") != "" {
		return snapshotRow{}, fmt.Errorf("parse arrival_index: %w", err)
	}
	return snapshotRow{
		ID:               field("id"),
		ExternalID:       field("external_id"),
		Source:           field("source"),
		Title:            field("title"),
		Description:      field("description"),
		NativePriority:   field("native_priority"),
		NativeState:      field("native_state"),
		IssueType:        field("issue_type"),
		Reporter:         field("reporter"),
		CreatedAt:        field("created_at"),
		ArrivalIndex:     arrival,
		Category:         field("category"),
		Priority:         field("priority"),
		RequiredSkills:   field("required_skills"),
		Summary:          field("summary"),
		TriageMethod:     field("triage_method"),
		AssignedEngineer: field("assigned_engineer"),
	}, nil
}
