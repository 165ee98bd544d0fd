package candidate

import "slices"

// defaultPrefixes is the built-in catalogue of role and department
// local-parts.
var defaultPrefixes = []string{
	// business
	"info", "contact", "sales", "support", "admin",
	"service", "team", "hello", "marketing", "hr",
	"office", "accounts", "billing", "careers", "jobs",
	"press", "help", "enquiries", "management", "staff",
	"webmaster", "administrator", "customer", "tech",
	"finance", "legal", "compliance", "operations", "it",
	"network", "development", "research", "design", "engineering",
	"production", "purchasing", "logistics", "training",
	"ceo", "director", "manager",
	"executive", "agent", "representative", "partner",
	// website management
	"blog", "forum", "news", "updates", "events",
	"community", "shop", "store", "feedback",
	"media", "resource", "resources",
	"api", "dev", "developer", "status", "security",
}

// DefaultPrefixes returns a copy of the built-in prefix catalogue.
func DefaultPrefixes() []string {
	return slices.Clone(defaultPrefixes)
}

// Prefixes returns one prefix@domain address per prefix, in input order.
// A nil custom list selects the built-in catalogue; a non-nil empty list
// yields no addresses.
func Prefixes(domain string, custom []string) []string {
	prefixes := custom
	if prefixes == nil {
		prefixes = defaultPrefixes
	}

	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, p+"@"+domain)
	}
	return out
}
