package assign

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
)

// Default scoring weights. Skill fit dominates, workload headroom balances.
const (
	DefaultSkillWeight    = 0.6
	DefaultWorkloadWeight = 0.4
)

// FallbackReason is recorded on audit entries when the least-loaded fallback
// assigned a ticket nobody was eligible for.
const FallbackReason = "No suitable engineer found (fallback to least loaded)"

// Options control one assignment pass.
type Options struct {
	// SkillWeight and WorkloadWeight scale the two score components.
	// Non-positive values fall back to the defaults.
	SkillWeight    float64
	WorkloadWeight float64

	// AllowOverflow keeps at-capacity engineers eligible. Their workload
	// component scores zero but skill fit can still win the ticket.
	AllowOverflow bool

	// FallbackLeastLoaded assigns the least-loaded engineer, capacity
	// ignored, when no engineer is eligible. Off by default; unassigned
	// is a normal terminal state, not an error.
	FallbackLeastLoaded bool
}

// Normalized returns the options with non-positive weights replaced by the
// defaults, the same resolution AssignBatch applies.
func (o Options) Normalized() Options {
	if o.SkillWeight <= 0 {
		o.SkillWeight = DefaultSkillWeight
	}
	if o.WorkloadWeight <= 0 {
		o.WorkloadWeight = DefaultWorkloadWeight
	}
	return o
}

// Assignment is the outcome for one ticket, in processing order.
type Assignment struct {
	TicketID   string  `json:"ticket_id"`
	Engineer   string  `json:"engineer"`
	Score      float64 `json:"score"`
	IsFallback bool    `json:"is_fallback"`
	Reason     string  `json:"reason,omitempty"`
}

// ScoreBreakdown explains how one engineer scored against one ticket.
type ScoreBreakdown struct {
	Engineer      string  `json:"engineer"`
	SkillRatio    float64 `json:"skill_ratio"`
	WorkloadScore float64 `json:"workload_score"`
	Combined      float64 `json:"combined_score"`
	CurrentLoad   int     `json:"current_load"`
	MaxWorkload   int     `json:"max_workload"`
	Eligible      bool    `json:"eligible"`
	Reason        string  `json:"reason,omitempty"`
}

// Scorer assigns categorized tickets to roster engineers. It holds no
// mutable state; workload lives in the WorkloadState passed per call.
type Scorer struct {
	roster []domain.Engineer
	logger *zap.Logger
}

// NewScorer builds a scorer over a fixed roster.
func NewScorer(roster []domain.Engineer, logger *zap.Logger) *Scorer {
	return &Scorer{roster: roster, logger: logger}
}

// Roster returns the engineers the scorer assigns against.
func (s *Scorer) Roster() []domain.Engineer {
	return s.roster
}

// AssignBatch orders tickets by priority (stable on arrival order within a
// tier), picks the best engineer for each, and increments that engineer's
// workload immediately so later tickets in the pass see the updated load.
// It returns the sorted, assigned tickets and one Assignment per ticket.
// Empty batches and empty rosters are valid no-ops.
func (s *Scorer) AssignBatch(tickets []domain.Ticket, state *WorkloadState, opts Options) ([]domain.Ticket, []Assignment) {
	opts = opts.Normalized()

	ordered := make([]domain.Ticket, len(tickets))
	copy(ordered, tickets)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority.Rank() != ordered[j].Priority.Rank() {
			return ordered[i].Priority.Rank() < ordered[j].Priority.Rank()
		}
		return ordered[i].ArrivalIndex < ordered[j].ArrivalIndex
	})

	assignments := make([]Assignment, 0, len(ordered))
	for i := range ordered {
		assignment := s.assignOne(&ordered[i], state, opts)
		assignments = append(assignments, assignment)
	}
	return ordered, assignments
}

func (s *Scorer) assignOne(ticket *domain.Ticket, state *WorkloadState, opts Options) Assignment {
	name, score := s.pickBest(*ticket, state, opts)

	if name == "" && opts.FallbackLeastLoaded {
		if fallback := s.pickLeastLoaded(state); fallback != "" {
			ticket.AssignedEngineer = fallback
			state.add(fallback)
			s.logger.Warn("fallback assignment",
				zap.String("ticket_id", ticket.ID),
				zap.String("engineer", fallback),
			)
			return Assignment{
				TicketID:   ticket.ID,
				Engineer:   fallback,
				IsFallback: true,
				Reason:     FallbackReason,
			}
		}
	}

	if name == "" {
		ticket.AssignedEngineer = ""
		return Assignment{TicketID: ticket.ID, Reason: "no eligible engineer"}
	}

	ticket.AssignedEngineer = name
	state.add(name)
	return Assignment{TicketID: ticket.ID, Engineer: name, Score: score}
}

// pickBest returns the winning engineer and score, or "" when nobody is
// eligible. Ties break to the lower current load, then to roster order.
func (s *Scorer) pickBest(ticket domain.Ticket, state *WorkloadState, opts Options) (string, float64) {
	best := ""
	bestScore := -1.0
	bestLoad := 0

	for _, eng := range s.roster {
		if !eng.Available() {
			continue
		}
		load := state.Load(eng.Name)
		maxLoad := eng.EffectiveMaxWorkload()
		if load >= maxLoad && !opts.AllowOverflow {
			continue
		}

		score := opts.SkillWeight*skillRatio(eng, ticket.RequiredSkills) +
			opts.WorkloadWeight*workloadScore(load, maxLoad)

		if score > bestScore || (score == bestScore && load < bestLoad) {
			best = eng.Name
			bestScore = score
			bestLoad = load
		}
	}
	if best == "" {
		return "", 0
	}
	return best, bestScore
}

// pickLeastLoaded prefers available engineers, falls back to the whole
// roster, and ignores capacity entirely. Roster order breaks load ties.
func (s *Scorer) pickLeastLoaded(state *WorkloadState) string {
	candidates := make([]domain.Engineer, 0, len(s.roster))
	for _, eng := range s.roster {
		if eng.Available() {
			candidates = append(candidates, eng)
		}
	}
	if len(candidates) == 0 {
		candidates = s.roster
	}

	chosen := ""
	minLoad := -1
	for _, eng := range candidates {
		load := state.Load(eng.Name)
		if minLoad < 0 || load < minLoad {
			minLoad = load
			chosen = eng.Name
		}
	}
	return chosen
}

// Explain scores every roster engineer against one ticket without mutating
// workload state. Ineligible engineers carry the reason they were skipped.
func (s *Scorer) Explain(ticket domain.Ticket, state *WorkloadState, opts Options) []ScoreBreakdown {
	opts = opts.Normalized()

	breakdown := make([]ScoreBreakdown, 0, len(s.roster))
	for _, eng := range s.roster {
		load := state.Load(eng.Name)
		maxLoad := eng.EffectiveMaxWorkload()
		entry := ScoreBreakdown{
			Engineer:      eng.Name,
			SkillRatio:    skillRatio(eng, ticket.RequiredSkills),
			WorkloadScore: workloadScore(load, maxLoad),
			CurrentLoad:   load,
			MaxWorkload:   maxLoad,
			Eligible:      true,
		}
		switch {
		case !eng.Available():
			entry.Eligible = false
			entry.Reason = "unavailable"
		case load >= maxLoad && !opts.AllowOverflow:
			entry.Eligible = false
			entry.Reason = "at max workload"
		}
		if entry.Eligible {
			entry.Combined = opts.SkillWeight*entry.SkillRatio + opts.WorkloadWeight*entry.WorkloadScore
		}
		breakdown = append(breakdown, entry)
	}
	return breakdown
}

// skillRatio is the fraction of the ticket's required skills the engineer
// covers, case-insensitive. A ticket with no required skills matches
// everyone at 1.0.
func skillRatio(eng domain.Engineer, required []string) float64 {
	wanted := make(map[string]struct{}, len(required))
	for _, skill := range required {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill != "" {
			wanted[skill] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return 1.0
	}

	have := eng.SkillSet()
	matched := 0
	for skill := range wanted {
		if _, ok := have[skill]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(wanted))
}

// workloadScore rewards headroom: zero at or over capacity, 1.0 when idle.
func workloadScore(load, maxLoad int) float64 {
	if load >= maxLoad {
		return 0
	}
	return 1.0 - float64(load)/float64(maxLoad)
}
