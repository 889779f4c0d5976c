package assign

import "github.com/spec-kit/triage-service/internal/domain"

// WorkloadState tracks how many tickets each engineer holds during one
// assignment pass. It is explicit state passed in and out of the scorer;
// nothing in this package is shared between runs.
type WorkloadState struct {
	counts map[string]int
}

// NewWorkloadState starts every engineer in the roster at zero.
func NewWorkloadState(roster []domain.Engineer) *WorkloadState {
	counts := make(map[string]int, len(roster))
	for _, eng := range roster {
		counts[eng.Name] = 0
	}
	return &WorkloadState{counts: counts}
}

// WorkloadFromCounts rebuilds state from a persisted workload summary.
func WorkloadFromCounts(counts map[string]int) *WorkloadState {
	w := &WorkloadState{counts: make(map[string]int, len(counts))}
	for name, load := range counts {
		w.counts[name] = load
	}
	return w
}

// Load returns the current ticket count for an engineer.
func (w *WorkloadState) Load(name string) int {
	return w.counts[name]
}

// Reset zeroes every counter, keeping the engineer set.
func (w *WorkloadState) Reset() {
	for name := range w.counts {
		w.counts[name] = 0
	}
}

// Counts returns a copy of the per-engineer ticket counts.
func (w *WorkloadState) Counts() map[string]int {
	out := make(map[string]int, len(w.counts))
	for name, load := range w.counts {
		out[name] = load
	}
	return out
}

func (w *WorkloadState) add(name string) {
	w.counts[name]++
}
