package storage

import (
	"encoding/json"
	"io"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/spec-kit/triage-service/internal/domain"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

const (
	actionLogName   = "triage_actions.log"
	reassignLogName = "reassign_log.jsonl"

	auditLogMaxSizeMB  = 20
	auditLogMaxBackups = 5
	auditLogMaxAgeDays = 30
)

// jsonlFile serializes writes of one JSON object per line through a
// rotating file writer.
type jsonlFile struct {
	mu     sync.Mutex
	writer io.WriteCloser
}

func newJSONLFile(path string) *jsonlFile {
	return &jsonlFile{writer: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    auditLogMaxSizeMB,
		MaxBackups: auditLogMaxBackups,
		MaxAge:     auditLogMaxAgeDays,
		Compress:   true,
		LocalTime:  true,
	}}
}

func (f *jsonlFile) append(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return apperrors.NewStorageError("log", err)
	}
	line = append(line, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.writer.Write(line); err != nil {
		return apperrors.NewStorageError("log", err)
	}
	return nil
}

func (f *jsonlFile) close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writer.Close()
}

// ActionLog records one JSON line per pipeline action (runs, reassignments,
// snapshot writes) with free-form fields plus a write-time timestamp.
type ActionLog struct {
	file *jsonlFile
}

// NewActionLog writes to triage_actions.log under the log directory; the
// rotating writer creates the directory on first write.
func NewActionLog(dir string) *ActionLog {
	return &ActionLog{file: newJSONLFile(filepath.Join(dir, actionLogName))}
}

// Append stamps the entry with the current time and writes it. The caller's
// map is not modified.
func (l *ActionLog) Append(entry map[string]any) error {
	record := make(map[string]any, len(entry)+1)
	for k, v := range entry {
		record[k] = v
	}
	record["timestamp"] = time.Now().Format(time.RFC3339)
	return l.file.append(record)
}

func (l *ActionLog) Close() error {
	return l.file.close()
}

// ReassignLog is the audit trail for fallback assignments and explicit
// reassignment runs.
type ReassignLog struct {
	file *jsonlFile
}

func NewReassignLog(dir string) *ReassignLog {
	return &ReassignLog{file: newJSONLFile(filepath.Join(dir, reassignLogName))}
}

func (l *ReassignLog) Record(audit domain.AssignmentAudit) error {
	if audit.Timestamp.IsZero() {
		audit.Timestamp = time.Now()
	}
	return l.file.append(audit)
}

func (l *ReassignLog) Close() error {
	return l.file.close()
}
