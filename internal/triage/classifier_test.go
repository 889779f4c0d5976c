package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
)

type stubClassifier struct {
	result Result
	err    error
	calls  int
}

func (s *stubClassifier) Classify(ctx context.Context, title, description string) (Result, error) {
	s.calls++
	return s.result, s.err
}

func TestFallbackClassifier_UsesPrimaryOnSuccess(t *testing.T) {
	primary := &stubClassifier{result: Result{
		Category: domain.CategorySecurity,
		Priority: domain.TicketPriorityHigh,
		Skills:   []string{"Security"},
		Summary:  "Expired certificate on the public site",
		Method:   domain.TriageMethodAI,
	}}
	backup := &stubClassifier{}

	f := NewFallbackClassifier(primary, backup, zap.NewNop(), nil)
	result, err := f.Classify(context.Background(), "SSL certificate expired", "")

	require.NoError(t, err)
	assert.Equal(t, domain.TriageMethodAI, result.Method)
	assert.Equal(t, domain.CategorySecurity, result.Category)
	assert.Equal(t, 0, backup.calls)
}

func TestFallbackClassifier_DegradesOnError(t *testing.T) {
	primary := &stubClassifier{err: errors.New("upstream unavailable")}

	f := NewFallbackClassifier(primary, NewRuleClassifier(), zap.NewNop(), nil)
	result, err := f.Classify(context.Background(), "VPN connection down for all remote users", "")

	require.NoError(t, err)
	assert.Equal(t, domain.TriageMethodRules, result.Method)
	assert.Equal(t, domain.CategoryNetwork, result.Category)
	assert.Equal(t, 1, primary.calls)
}

func TestFromConfig_RuleBasedWithoutAI(t *testing.T) {
	cfg := config.Default()

	c := FromConfig(cfg, zap.NewNop(), nil)

	_, ok := c.(RuleClassifier)
	assert.True(t, ok)
}

func TestFromConfig_FallbackWrapperWithAI(t *testing.T) {
	cfg := config.Default()
	cfg.EnterpriseMode = true
	cfg.OpenAI.Enabled = true
	cfg.OpenAI.APIKey = "sk-test"

	c := FromConfig(cfg, zap.NewNop(), nil)

	_, ok := c.(*FallbackClassifier)
	assert.True(t, ok)
}
