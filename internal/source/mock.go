package source

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
)

// MockSource generates ServiceNow- and Jira-shaped tickets locally so the
// pipeline runs without any external credentials. A non-zero seed repeats
// the same titles, priorities, and states on every fetch; created times
// stay relative to the fetch time.
type MockSource struct {
	serviceNowCount int
	jiraCount       int
	seed            int64
}

// NewMockSource builds the generator from the mock config section.
func NewMockSource(cfg config.MockConfig) *MockSource {
	return &MockSource{
		serviceNowCount: cfg.ServiceNowCount,
		jiraCount:       cfg.JiraCount,
		seed:            cfg.Seed,
	}
}

func (s *MockSource) Name() string {
	return string(domain.TicketSourceMock)
}

// Fetch generates the configured number of ServiceNow incidents followed by
// Jira issues. Generation is local, so the context is never consulted.
func (s *MockSource) Fetch(_ context.Context) ([]domain.Ticket, error) {
	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	now := time.Now()

	tickets := make([]domain.Ticket, 0, s.serviceNowCount+s.jiraCount)
	for i := 0; i < s.serviceNowCount; i++ {
		tickets = append(tickets, mockServiceNowTicket(rng, now, i))
	}
	for i := 0; i < s.jiraCount; i++ {
		tickets = append(tickets, mockJiraTicket(rng, now, i))
	}
	return tickets, nil
}

func mockServiceNowTicket(rng *rand.Rand, now time.Time, i int) domain.Ticket {
	title := randomTemplate(rng)
	return domain.Ticket{
		ID:             fmt.Sprintf("INC%d", 10000+i),
		ExternalID:     fmt.Sprintf("SN%d", 10000+i),
		Source:         domain.TicketSourceServiceNow,
		Title:          title,
		Description:    fmt.Sprintf("Full details: %s. User reported this issue needs immediate attention.", title),
		NativePriority: pick(rng, "1", "2", "3"),
		NativeState:    pick(rng, "1", "2", "3", "6"),
		Reporter:       fmt.Sprintf("user%d@company.com", 1+rng.Intn(100)),
		CreatedAt:      now.Add(-randomAge(rng)),
	}
}

func mockJiraTicket(rng *rand.Rand, now time.Time, i int) domain.Ticket {
	title := randomTemplate(rng)
	return domain.Ticket{
		ID:             fmt.Sprintf("PROJ-%d", 1000+i),
		ExternalID:     fmt.Sprintf("JIRA%d", 20000+i),
		Source:         domain.TicketSourceJira,
		Title:          title,
		Description:    fmt.Sprintf("Details: %s\n\nSteps to reproduce:\n1. User encounters issue\n2. Issue persists\n3. Requires technical investigation", title),
		NativePriority: pick(rng, "High", "Medium", "Low"),
		NativeState:    pick(rng, "To Do", "In Progress", "In Review", "Done"),
		IssueType:      pick(rng, "Bug", "Task", "Story"),
		Reporter:       fmt.Sprintf("user%d", 1+rng.Intn(100)),
		CreatedAt:      now.Add(-randomAge(rng)),
	}
}

func randomTemplate(rng *rand.Rand) string {
	category := domain.Categories[rng.Intn(len(domain.Categories))]
	templates := ticketTemplates[category]
	return templates[rng.Intn(len(templates))]
}

// randomAge spreads mock tickets over the past week.
func randomAge(rng *rand.Rand) time.Duration {
	return time.Duration(rng.Intn(8))*24*time.Hour + time.Duration(rng.Intn(24))*time.Hour
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}
