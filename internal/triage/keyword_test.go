package triage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/triage-service/internal/domain"
)

func TestRuleClassifier_VPNOutage(t *testing.T) {
	c := NewRuleClassifier()

	result, err := c.Classify(context.Background(), "VPN connection down for all remote users", "")

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryNetwork, result.Category)
	assert.Equal(t, domain.TicketPriorityHigh, result.Priority)
	assert.Equal(t, []string{"Network", "Security"}, result.Skills)
	assert.Equal(t, "Network issue: VPN connection down for all remote users...", result.Summary)
	assert.Equal(t, domain.TriageMethodRules, result.Method)
}

func TestRuleClassifier_UnmatchedTextIsOther(t *testing.T) {
	c := NewRuleClassifier()

	result, err := c.Classify(context.Background(), "Hello world greeting", "")

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, result.Category)
	assert.Equal(t, domain.TicketPriorityMedium, result.Priority)
	assert.Equal(t, []string{"DevOps", "Backend"}, result.Skills)
}

func TestRuleClassifier_TieResolvesToEarlierCategory(t *testing.T) {
	c := NewRuleClassifier()

	// one Network hit and one Database hit; Network comes first in
	// canonical order and the comparison is strictly-greater
	result, err := c.Classify(context.Background(), "network database", "")

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryNetwork, result.Category)
}

func TestRuleClassifier_HigherHitCountWins(t *testing.T) {
	c := NewRuleClassifier()

	result, err := c.Classify(context.Background(), "database", "sql query replication lag")

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryDatabase, result.Category)
}

func TestRuleClassifier_PriorityTiers(t *testing.T) {
	c := NewRuleClassifier()

	cases := []struct {
		name  string
		title string
		want  domain.TicketPriority
	}{
		{"high beats medium", "critical outage with intermittent warnings", domain.TicketPriorityHigh},
		{"medium tier", "replication lag causing a warning", domain.TicketPriorityMedium},
		{"low tier", "enhancement for the reporting dashboard", domain.TicketPriorityLow},
		{"default medium", "printer toner replacement", domain.TicketPriorityMedium},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := c.Classify(context.Background(), tc.title, "")
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Priority)
		})
	}
}

func TestRuleClassifier_SummaryTruncatesLongTitles(t *testing.T) {
	c := NewRuleClassifier()
	title := strings.Repeat("a", 100)

	result, err := c.Classify(context.Background(), title, "")

	require.NoError(t, err)
	assert.Equal(t, "Other issue: "+strings.Repeat("a", 80)+"...", result.Summary)
}

func TestRuleClassifier_Deterministic(t *testing.T) {
	c := NewRuleClassifier()

	first, err := c.Classify(context.Background(), "Firewall blocking DNS lookups", "switch misconfigured")
	require.NoError(t, err)
	second, err := c.Classify(context.Background(), "Firewall blocking DNS lookups", "switch misconfigured")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSkillsFor_ReturnsCopy(t *testing.T) {
	skills := SkillsFor(domain.CategoryNetwork)
	skills[0] = "mutated"

	assert.Equal(t, []string{"Network", "Security"}, SkillsFor(domain.CategoryNetwork))
}

func TestSkillsFor_UnknownCategoryFallsBackToOther(t *testing.T) {
	assert.Equal(t, []string{"DevOps", "Backend"}, SkillsFor(domain.Category("Bogus")))
}
