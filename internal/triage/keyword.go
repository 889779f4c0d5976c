package triage

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/triage-service/internal/domain"
)

// RuleClassifier categorizes tickets with fixed keyword tables. It is
// deterministic, never errors, and needs no external services, which makes
// it both the demo-mode strategy and the fallback behind the AI path.
type RuleClassifier struct{}

// NewRuleClassifier returns the keyword-rule strategy.
func NewRuleClassifier() RuleClassifier {
	return RuleClassifier{}
}

// Classify scans the combined ticket text against the keyword tables. The
// category with the strictly highest hit count wins, ties resolving to the
// earliest category in canonical order; no hits at all mean Other.
func (RuleClassifier) Classify(_ context.Context, title, description string) (Result, error) {
	text := strings.ToLower(title + " " + description)

	category := domain.CategoryOther
	maxHits := 0
	for _, candidate := range domain.Categories {
		hits := 0
		for _, keyword := range categoryKeywords[candidate] {
			if strings.Contains(text, keyword) {
				hits++
			}
		}
		if hits > maxHits {
			maxHits = hits
			category = candidate
		}
	}

	priority := domain.TicketPriorityMedium
	for _, tier := range priorityKeywords {
		if containsAny(text, tier.keywords) {
			priority = tier.priority
			break
		}
	}

	return Result{
		Category: category,
		Priority: priority,
		Skills:   SkillsFor(category),
		Summary:  ruleSummary(category, title),
		Method:   domain.TriageMethodRules,
	}, nil
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// ruleSummary renders "<category> issue: <title>..." with the title capped
// at 80 characters.
func ruleSummary(category domain.Category, title string) string {
	if len(title) > 80 {
		title = title[:80]
	}
	return fmt.Sprintf("%s issue: %s...", category, title)
}
