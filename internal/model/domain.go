package model

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// ErrInvalidDomain is returned when a domain is not a usable mail domain.
var ErrInvalidDomain = errors.New("invalid domain")

// ValidateDomain checks that domain is a syntactically valid hostname with
// at least two labels. Internationalized names are accepted and checked
// against the IDNA lookup profile.
//
// The domain is never rewritten: candidates must carry the exact domain the
// caller supplied.
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("%w: empty", ErrInvalidDomain)
	}
	if strings.TrimSpace(domain) != domain {
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidDomain, domain)
	}
	if strings.Contains(domain, "@") {
		return fmt.Errorf("%w: %q looks like an email address", ErrInvalidDomain, domain)
	}

	ascii, err := idna.Lookup.ToASCII(strings.TrimSuffix(domain, "."))
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidDomain, domain, err)
	}
	if !strings.Contains(ascii, ".") {
		return fmt.Errorf("%w: %q has no top-level domain", ErrInvalidDomain, domain)
	}

	for _, label := range strings.Split(ascii, ".") {
		if label == "" || len(label) > 63 {
			return fmt.Errorf("%w: %q has an empty or oversized label", ErrInvalidDomain, domain)
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return fmt.Errorf("%w: %q has a label starting or ending with '-'", ErrInvalidDomain, domain)
		}
	}

	return nil
}
