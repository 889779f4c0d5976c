package domain

import "time"

// TicketSource identifies the system a ticket was fetched from.
type TicketSource string

const (
	TicketSourceServiceNow TicketSource = "ServiceNow"
	TicketSourceJira       TicketSource = "Jira"
	TicketSourceMock       TicketSource = "Mock"
)

// Category enumerates the closed set of problem areas a ticket can be
// classified into. Values double as the tokens the AI prompt constrains
// its response to, so they stay in display case.
type Category string

const (
	CategoryNetwork  Category = "Network"
	CategoryDatabase Category = "Database"
	CategoryDevOps   Category = "DevOps"
	CategorySecurity Category = "Security"
	CategoryFrontend Category = "Frontend"
	CategoryBackend  Category = "Backend"
	CategoryAccess   Category = "Access"
	CategoryOther    Category = "Other"
)

// Categories lists every valid category in canonical order. Classification
// iterates this slice so keyword ties resolve deterministically.
var Categories = []Category{
	CategoryNetwork,
	CategoryDatabase,
	CategoryDevOps,
	CategorySecurity,
	CategoryFrontend,
	CategoryBackend,
	CategoryAccess,
	CategoryOther,
}

// TicketPriority enumerates triage urgency.
type TicketPriority string

const (
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityLow    TicketPriority = "Low"
)

// Rank orders priorities for assignment: lower rank is more urgent.
// Unknown values rank with Medium.
func (p TicketPriority) Rank() int {
	switch p {
	case TicketPriorityHigh:
		return 0
	case TicketPriorityMedium:
		return 1
	case TicketPriorityLow:
		return 2
	default:
		return 1
	}
}

// TriageMethod records which classification path produced a ticket's
// category and priority.
type TriageMethod string

const (
	TriageMethodAI    TriageMethod = "AI_MODEL"
	TriageMethodRules TriageMethod = "RULE_BASED"
)

// Ticket is a support request flowing through the pipeline. The source
// adapter populates the raw fields, the classifier sets the triage fields
// once, the scorer sets AssignedEngineer once; after that the record is
// immutable and handed to storage.
type Ticket struct {
	ID             string       `json:"id"`
	ExternalID     string       `json:"external_id"`
	Source         TicketSource `json:"source"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	NativePriority string       `json:"native_priority"`
	NativeState    string       `json:"native_state"`
	IssueType      string       `json:"issue_type,omitempty"`
	Reporter       string       `json:"reporter,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	ArrivalIndex   int          `json:"arrival_index"`

	Category       Category       `json:"category"`
	Priority       TicketPriority `json:"priority"`
	RequiredSkills []string       `json:"required_skills"`
	Summary        string         `json:"summary"`
	Method         TriageMethod   `json:"triage_method"`

	// AssignedEngineer is empty while the ticket is unassigned.
	AssignedEngineer string `json:"assigned_engineer"`
}

// Assigned reports whether the scorer found an engineer for the ticket.
func (t Ticket) Assigned() bool {
	return t.AssignedEngineer != ""
}

// ValidCategory reports membership in the closed category set.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ValidPriority reports membership in the closed priority set.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityHigh, TicketPriorityMedium, TicketPriorityLow:
		return true
	default:
		return false
	}
}
