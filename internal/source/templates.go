package source

import "github.com/spec-kit/triage-service/internal/domain"

// ticketTemplates holds realistic sample titles per category for the mock
// generator. The generator draws categories through domain.Categories, never
// by ranging over this map, so a fixed seed always yields the same batch.
var ticketTemplates = map[domain.Category][]string{
	domain.CategoryNetwork: {
		"VPN connection failing intermittently for remote users",
		"Network latency issues in East Coast data center",
		"Firewall rules blocking access to production database",
		"DNS resolution failure for internal domains",
		"Switch port errors causing packet loss on floor 3",
	},
	domain.CategoryDatabase: {
		"PostgreSQL database running out of disk space",
		"MySQL replication lag exceeding threshold",
		"Database connection pool exhausted",
		"Slow query performance on user_transactions table",
		"MongoDB replica set member unreachable",
	},
	domain.CategoryDevOps: {
		"CI/CD pipeline failing on build step",
		"Kubernetes pod stuck in CrashLoopBackOff",
		"Docker registry running out of storage",
		"Jenkins agent nodes offline",
		"Terraform state file locked preventing deployments",
	},
	domain.CategorySecurity: {
		"Suspicious login attempts detected from unusual location",
		"SSL certificate expiring in 7 days",
		"Security scan found critical vulnerabilities in dependencies",
		"Unauthorized access attempt to admin panel",
		"MFA tokens not being delivered to users",
	},
	domain.CategoryFrontend: {
		"Website header not displaying correctly on mobile devices",
		"JavaScript error preventing form submission",
		"Page load time exceeding 10 seconds",
		"Shopping cart items disappearing on refresh",
		"CSS styling broken after latest deployment",
	},
	domain.CategoryBackend: {
		"API endpoint returning 500 internal server error",
		"Payment processing service timing out",
		"Email notifications not being sent to users",
		"Background job queue backed up with 10,000+ jobs",
		"Session management causing users to be logged out",
	},
	domain.CategoryAccess: {
		"New employee needs access to Salesforce and Jira",
		"User locked out of account after password reset",
		"Request for admin privileges on production server",
		"Unable to access shared drive from home office",
		"VPN credentials expired for contractor",
	},
	domain.CategoryOther: {
		"Printer not working on 2nd floor",
		"Conference room TV display flickering",
		"Software license renewal needed",
		"General inquiry about IT policies",
		"Request for new laptop for new hire",
	},
}
