package domain

import "time"

// Batch is one processed triage run: the tickets after classification and
// assignment plus the workload the run produced.
type Batch struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Method      TriageMethod   `json:"triage_method"`
	Tickets     []Ticket       `json:"tickets"`
	Workload    map[string]int `json:"workload"`
	SourceNotes []string       `json:"source_notes,omitempty"`
}

// Empty reports whether the batch carries no tickets.
func (b Batch) Empty() bool {
	return len(b.Tickets) == 0
}

// CountUnassigned returns how many tickets ended the run without an engineer.
func (b Batch) CountUnassigned() int {
	count := 0
	for _, t := range b.Tickets {
		if !t.Assigned() {
			count++
		}
	}
	return count
}

// CountByPriority returns how many tickets carry the given priority.
func (b Batch) CountByPriority(p TicketPriority) int {
	count := 0
	for _, t := range b.Tickets {
		if t.Priority == p {
			count++
		}
	}
	return count
}
