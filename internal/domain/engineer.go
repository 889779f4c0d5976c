package domain

import "strings"

// DefaultMaxWorkload applies when an engineer's configured limit is missing
// or non-positive.
const DefaultMaxWorkload = 5

// AvailabilityAvailable is the only availability value that makes an
// engineer eligible for assignment. Comparison is case-insensitive; any
// other value means unavailable.
const AvailabilityAvailable = "available"

// Engineer models a roster entry loaded from configuration.
type Engineer struct {
	Name         string   `json:"name"`
	Skills       []string `json:"skills"`
	Availability string   `json:"availability"`
	MaxWorkload  int      `json:"max_workload"`
}

// Available reports whether the engineer can take new tickets.
func (e Engineer) Available() bool {
	return strings.EqualFold(strings.TrimSpace(e.Availability), AvailabilityAvailable)
}

// EffectiveMaxWorkload returns the configured limit or the default.
func (e Engineer) EffectiveMaxWorkload() int {
	if e.MaxWorkload <= 0 {
		return DefaultMaxWorkload
	}
	return e.MaxWorkload
}

// SkillSet returns the engineer's skills lowercased for set intersection.
func (e Engineer) SkillSet() map[string]struct{} {
	set := make(map[string]struct{}, len(e.Skills))
	for _, skill := range e.Skills {
		normalized := strings.ToLower(strings.TrimSpace(skill))
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}
