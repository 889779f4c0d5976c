package triage

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/observability"
)

// Result is the outcome of classifying one ticket.
type Result struct {
	Category domain.Category
	Priority domain.TicketPriority
	Skills   []string
	Summary  string
	Method   domain.TriageMethod
}

// Classifier turns a ticket's text into a triage result. Implementations
// must be safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, title, description string) (Result, error)
}

// FromConfig selects the classification strategy. With AI enabled the
// OpenAI classifier runs behind the rule-based fallback, otherwise the
// rule-based classifier runs alone.
func FromConfig(cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) Classifier {
	rules := NewRuleClassifier()
	if !cfg.AIEnabled() {
		return rules
	}
	return NewFallbackClassifier(NewOpenAIClassifier(cfg.OpenAI, logger), rules, logger, metrics)
}

// FallbackClassifier tries a primary classifier and falls back to a backup
// on any error, so classification never fails a batch.
type FallbackClassifier struct {
	primary Classifier
	backup  Classifier
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewFallbackClassifier wires a primary classifier to its backup.
func NewFallbackClassifier(primary, backup Classifier, logger *zap.Logger, metrics *observability.Metrics) *FallbackClassifier {
	return &FallbackClassifier{primary: primary, backup: backup, logger: logger, metrics: metrics}
}

// Classify runs the primary classifier and degrades to the backup on error.
func (f *FallbackClassifier) Classify(ctx context.Context, title, description string) (Result, error) {
	result, err := f.primary.Classify(ctx, title, description)
	if err == nil {
		return result, nil
	}
	f.logger.Warn("primary classifier failed, using rule-based fallback",
		zap.String("title", title),
		zap.Error(err),
	)
	f.metrics.RecordAIFallback()
	return f.backup.Classify(ctx, title, description)
}
