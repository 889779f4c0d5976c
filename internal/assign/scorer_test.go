package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
)

func engineer(name string, skills []string, availability string, maxWorkload int) domain.Engineer {
	return domain.Engineer{Name: name, Skills: skills, Availability: availability, MaxWorkload: maxWorkload}
}

func ticket(id string, priority domain.TicketPriority, skills []string, arrival int) domain.Ticket {
	return domain.Ticket{
		ID:             id,
		Priority:       priority,
		RequiredSkills: skills,
		ArrivalIndex:   arrival,
	}
}

func newScorer(roster ...domain.Engineer) *Scorer {
	return NewScorer(roster, zap.NewNop())
}

func TestAssignBatch_CapacityLimitsAssignments(t *testing.T) {
	s := newScorer(engineer("Alice", []string{"Network"}, "available", 1))
	state := NewWorkloadState(s.Roster())

	tickets := []domain.Ticket{
		ticket("T1", domain.TicketPriorityMedium, []string{"Network"}, 0),
		ticket("T2", domain.TicketPriorityMedium, []string{"Network"}, 1),
	}

	assigned, results := s.AssignBatch(tickets, state, Options{})

	require.Len(t, assigned, 2)
	assert.Equal(t, "Alice", assigned[0].AssignedEngineer)
	assert.Empty(t, assigned[1].AssignedEngineer)
	assert.Equal(t, 1, state.Load("Alice"))

	require.Len(t, results, 2)
	assert.Equal(t, "Alice", results[0].Engineer)
	assert.False(t, results[0].IsFallback)
	assert.Empty(t, results[1].Engineer)
	assert.Equal(t, "no eligible engineer", results[1].Reason)
}

func TestAssignBatch_PriorityDescendingStable(t *testing.T) {
	s := newScorer(engineer("Alice", nil, "available", 10))
	state := NewWorkloadState(s.Roster())

	tickets := []domain.Ticket{
		ticket("low", domain.TicketPriorityLow, nil, 0),
		ticket("high-late", domain.TicketPriorityHigh, nil, 3),
		ticket("medium", domain.TicketPriorityMedium, nil, 1),
		ticket("high-early", domain.TicketPriorityHigh, nil, 2),
	}

	assigned, _ := s.AssignBatch(tickets, state, Options{})

	ids := []string{assigned[0].ID, assigned[1].ID, assigned[2].ID, assigned[3].ID}
	assert.Equal(t, []string{"high-early", "high-late", "medium", "low"}, ids)
}

func TestAssignBatch_HighPriorityGetsScarceCapacity(t *testing.T) {
	s := newScorer(engineer("Alice", []string{"Network"}, "available", 1))
	state := NewWorkloadState(s.Roster())

	tickets := []domain.Ticket{
		ticket("low", domain.TicketPriorityLow, []string{"Network"}, 0),
		ticket("high", domain.TicketPriorityHigh, []string{"Network"}, 1),
	}

	assigned, _ := s.AssignBatch(tickets, state, Options{})

	byID := map[string]string{}
	for _, tk := range assigned {
		byID[tk.ID] = tk.AssignedEngineer
	}
	assert.Equal(t, "Alice", byID["high"])
	assert.Empty(t, byID["low"])
}

func TestAssignBatch_ScoreFormula(t *testing.T) {
	s := newScorer(
		engineer("Full", []string{"Network", "Security"}, "available", 5),
		engineer("Half", []string{"Network"}, "available", 5),
	)
	state := NewWorkloadState(s.Roster())

	_, results := s.AssignBatch([]domain.Ticket{
		ticket("T1", domain.TicketPriorityHigh, []string{"Network", "Security"}, 0),
	}, state, Options{})

	require.Len(t, results, 1)
	assert.Equal(t, "Full", results[0].Engineer)
	// 0.6*1.0 + 0.4*1.0 with a full skill match and an idle engineer
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestAssignBatch_GreedyWorkloadBalancing(t *testing.T) {
	s := newScorer(
		engineer("A", []string{"Backend"}, "available", 5),
		engineer("B", []string{"Backend"}, "available", 5),
	)
	state := NewWorkloadState(s.Roster())

	tickets := []domain.Ticket{
		ticket("T1", domain.TicketPriorityMedium, []string{"Backend"}, 0),
		ticket("T2", domain.TicketPriorityMedium, []string{"Backend"}, 1),
		ticket("T3", domain.TicketPriorityMedium, []string{"Backend"}, 2),
	}

	assigned, _ := s.AssignBatch(tickets, state, Options{})

	// equal scores break to roster order, then the updated load pushes the
	// second ticket to B, then the tie at load 1 returns to A
	assert.Equal(t, "A", assigned[0].AssignedEngineer)
	assert.Equal(t, "B", assigned[1].AssignedEngineer)
	assert.Equal(t, "A", assigned[2].AssignedEngineer)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, state.Counts())
}

func TestAssignBatch_EqualScoreTieBreaksToLowerLoad(t *testing.T) {
	// identical workload ratios (1/2 vs 2/4) make the combined scores equal
	// on a skill-less ticket; the absolute load must then decide
	s := newScorer(
		engineer("Y", nil, "available", 4),
		engineer("X", nil, "available", 2),
	)
	state := WorkloadFromCounts(map[string]int{"Y": 2, "X": 1})

	assigned, _ := s.AssignBatch([]domain.Ticket{
		ticket("T1", domain.TicketPriorityMedium, nil, 0),
	}, state, Options{})

	assert.Equal(t, "X", assigned[0].AssignedEngineer)
}

func TestAssignBatch_SkilllessTicketMatchesEveryone(t *testing.T) {
	s := newScorer(engineer("Solo", []string{"Frontend"}, "available", 5))
	state := NewWorkloadState(s.Roster())

	breakdown := s.Explain(ticket("T1", domain.TicketPriorityLow, nil, 0), state, Options{})

	require.Len(t, breakdown, 1)
	assert.InDelta(t, 1.0, breakdown[0].SkillRatio, 1e-9)
}

func TestAssignBatch_SkillMatchIsCaseInsensitive(t *testing.T) {
	s := newScorer(engineer("Casey", []string{"network", "SECURITY"}, "Available", 5))
	state := NewWorkloadState(s.Roster())

	breakdown := s.Explain(ticket("T1", domain.TicketPriorityLow, []string{"Network", "security"}, 0), state, Options{})

	require.Len(t, breakdown, 1)
	assert.InDelta(t, 1.0, breakdown[0].SkillRatio, 1e-9)
	assert.True(t, breakdown[0].Eligible)
}

func TestAssignBatch_UnavailableEngineerSkipped(t *testing.T) {
	s := newScorer(engineer("Bob", []string{"Database"}, "busy", 5))
	state := NewWorkloadState(s.Roster())

	assigned, _ := s.AssignBatch([]domain.Ticket{
		ticket("T1", domain.TicketPriorityHigh, []string{"Database"}, 0),
	}, state, Options{})

	assert.Empty(t, assigned[0].AssignedEngineer)
}

func TestAssignBatch_AllowOverflowKeepsAssigning(t *testing.T) {
	s := newScorer(engineer("Alice", []string{"Network"}, "available", 1))
	state := NewWorkloadState(s.Roster())

	tickets := []domain.Ticket{
		ticket("T1", domain.TicketPriorityMedium, []string{"Network"}, 0),
		ticket("T2", domain.TicketPriorityMedium, []string{"Network"}, 1),
	}

	assigned, results := s.AssignBatch(tickets, state, Options{AllowOverflow: true})

	assert.Equal(t, "Alice", assigned[0].AssignedEngineer)
	assert.Equal(t, "Alice", assigned[1].AssignedEngineer)
	assert.Equal(t, 2, state.Load("Alice"))
	// second win comes from skill fit alone, the workload component is zero
	assert.InDelta(t, 0.6, results[1].Score, 1e-9)
	assert.False(t, results[1].IsFallback)
}

func TestAssignBatch_FallbackLeastLoaded(t *testing.T) {
	s := newScorer(
		engineer("Alice", []string{"Network"}, "available", 1),
		engineer("Bob", []string{"Network"}, "busy", 5),
	)
	state := NewWorkloadState(s.Roster())

	tickets := []domain.Ticket{
		ticket("T1", domain.TicketPriorityHigh, []string{"Network"}, 0),
		ticket("T2", domain.TicketPriorityMedium, []string{"Network"}, 1),
	}

	assigned, results := s.AssignBatch(tickets, state, Options{FallbackLeastLoaded: true})

	assert.Equal(t, "Alice", assigned[0].AssignedEngineer)
	assert.False(t, results[0].IsFallback)

	// Alice is at capacity and Bob is busy, so the fallback picks the
	// least-loaded available engineer, capacity ignored
	assert.Equal(t, "Alice", assigned[1].AssignedEngineer)
	assert.True(t, results[1].IsFallback)
	assert.Equal(t, FallbackReason, results[1].Reason)
	assert.Equal(t, 2, state.Load("Alice"))
}

func TestAssignBatch_FallbackUsesBusyRosterWhenNobodyAvailable(t *testing.T) {
	s := newScorer(engineer("Bob", []string{"Database"}, "busy", 5))
	state := NewWorkloadState(s.Roster())

	assigned, results := s.AssignBatch([]domain.Ticket{
		ticket("T1", domain.TicketPriorityHigh, []string{"Database"}, 0),
	}, state, Options{FallbackLeastLoaded: true})

	assert.Equal(t, "Bob", assigned[0].AssignedEngineer)
	assert.True(t, results[0].IsFallback)
}

func TestAssignBatch_EmptyRosterAndBatchAreNoops(t *testing.T) {
	s := newScorer()
	state := NewWorkloadState(nil)

	assigned, results := s.AssignBatch(nil, state, Options{})
	assert.Empty(t, assigned)
	assert.Empty(t, results)

	assigned, results = s.AssignBatch([]domain.Ticket{
		ticket("T1", domain.TicketPriorityHigh, []string{"Network"}, 0),
	}, state, Options{FallbackLeastLoaded: true})
	assert.Empty(t, assigned[0].AssignedEngineer)
	assert.Empty(t, results[0].Engineer)
}

func TestAssignBatch_WeightsChangeTheWinner(t *testing.T) {
	s := newScorer(
		engineer("Skilled", []string{"Network", "Security"}, "available", 5),
		engineer("Idle", []string{"Network"}, "available", 4),
	)
	tkt := ticket("T1", domain.TicketPriorityHigh, []string{"Network", "Security"}, 0)

	state := WorkloadFromCounts(map[string]int{"Skilled": 3, "Idle": 0})
	assigned, _ := s.AssignBatch([]domain.Ticket{tkt}, state, Options{})
	assert.Equal(t, "Skilled", assigned[0].AssignedEngineer)

	state = WorkloadFromCounts(map[string]int{"Skilled": 3, "Idle": 0})
	assigned, _ = s.AssignBatch([]domain.Ticket{tkt}, state, Options{SkillWeight: 0.2, WorkloadWeight: 0.8})
	assert.Equal(t, "Idle", assigned[0].AssignedEngineer)
}

func TestAssignBatch_DoesNotMutateInput(t *testing.T) {
	s := newScorer(engineer("Alice", []string{"Network"}, "available", 5))
	state := NewWorkloadState(s.Roster())

	input := []domain.Ticket{ticket("T1", domain.TicketPriorityHigh, []string{"Network"}, 0)}
	_, _ = s.AssignBatch(input, state, Options{})

	assert.Empty(t, input[0].AssignedEngineer)
}

func TestExplain_ReportsIneligibility(t *testing.T) {
	s := newScorer(
		engineer("Busy", []string{"Network"}, "busy", 5),
		engineer("Maxed", []string{"Network"}, "available", 1),
		engineer("Open", []string{"Network"}, "available", 5),
	)
	state := WorkloadFromCounts(map[string]int{"Busy": 0, "Maxed": 1, "Open": 2})

	breakdown := s.Explain(ticket("T1", domain.TicketPriorityHigh, []string{"Network"}, 0), state, Options{})

	require.Len(t, breakdown, 3)
	assert.False(t, breakdown[0].Eligible)
	assert.Equal(t, "unavailable", breakdown[0].Reason)
	assert.False(t, breakdown[1].Eligible)
	assert.Equal(t, "at max workload", breakdown[1].Reason)
	assert.True(t, breakdown[2].Eligible)
	assert.InDelta(t, 0.6*1.0+0.4*0.6, breakdown[2].Combined, 1e-9)
}

func TestWorkloadState_CountsIsACopy(t *testing.T) {
	state := WorkloadFromCounts(map[string]int{"A": 1})

	counts := state.Counts()
	counts["A"] = 99

	assert.Equal(t, 1, state.Load("A"))
}

func TestWorkloadState_Reset(t *testing.T) {
	state := WorkloadFromCounts(map[string]int{"A": 3, "B": 1})

	state.Reset()

	assert.Equal(t, map[string]int{"A": 0, "B": 0}, state.Counts())
}
