package triage

import "github.com/spec-kit/triage-service/internal/domain"

// categorySkills maps a category to the skills an engineer needs to work
// tickets in it. The single source of truth for skill tagging; the scorer
// matches these against the roster.
var categorySkills = map[domain.Category][]string{
	domain.CategoryNetwork:  {"Network", "Security"},
	domain.CategoryDatabase: {"Database", "Backend"},
	domain.CategoryDevOps:   {"DevOps", "Backend"},
	domain.CategorySecurity: {"Security", "Network"},
	domain.CategoryFrontend: {"Frontend"},
	domain.CategoryBackend:  {"Backend", "Database"},
	domain.CategoryAccess:   {"Access", "Security"},
	domain.CategoryOther:    {"DevOps", "Backend"},
}

// categoryKeywords drives rule-based categorization. Keywords are matched
// as lowercase substrings of "title description".
var categoryKeywords = map[domain.Category][]string{
	domain.CategoryNetwork:  {"vpn", "network", "firewall", "dns", "latency", "switch", "router", "connection"},
	domain.CategoryDatabase: {"database", "sql", "postgresql", "mysql", "mongodb", "query", "replication"},
	domain.CategoryDevOps:   {"ci/cd", "pipeline", "kubernetes", "docker", "jenkins", "terraform", "deployment"},
	domain.CategorySecurity: {"security", "ssl", "certificate", "vulnerability", "unauthorized", "mfa", "login"},
	domain.CategoryFrontend: {"frontend", "website", "css", "javascript", "mobile", "browser", "ui"},
	domain.CategoryBackend:  {"api", "backend", "server", "endpoint", "payment", "email", "session"},
	domain.CategoryAccess:   {"access", "permission", "credentials", "password", "account", "privileges"},
	domain.CategoryOther:    {"printer", "laptop", "license", "inquiry", "policy"},
}

// priorityKeywords is scanned top to bottom; the first tier with any hit
// wins, so High outranks Medium outranks Low.
var priorityKeywords = []struct {
	priority domain.TicketPriority
	keywords []string
}{
	{domain.TicketPriorityHigh, []string{"critical", "down", "outage", "urgent", "production", "security", "vulnerability"}},
	{domain.TicketPriorityMedium, []string{"slow", "intermittent", "warning", "issue", "problem"}},
	{domain.TicketPriorityLow, []string{"request", "inquiry", "question", "enhancement"}},
}

// SkillsFor returns a copy of the skill set tied to a category.
func SkillsFor(category domain.Category) []string {
	skills, ok := categorySkills[category]
	if !ok {
		skills = categorySkills[domain.CategoryOther]
	}
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}
