package candidate

import (
	"fmt"

	"github.com/nao1215/mailscout/internal/model"
)

// Selection chooses which generation modes are enabled for a domain check.
type Selection struct {
	// Variants enables name-based candidates.
	Variants bool

	// Prefixes enables role-prefix candidates for checks without names.
	Prefixes bool

	// CustomPrefixes replaces the built-in catalogue when non-nil.
	CustomPrefixes []string
}

// SkippedName records a person whose name could not be turned into
// candidates.
type SkippedName struct {
	Fragments []string
	Err       error
}

// Error implements error.
func (s SkippedName) Error() string {
	return fmt.Sprintf("skipped name %q: %v", s.Fragments, s.Err)
}

// Unwrap returns the underlying cause.
func (s SkippedName) Unwrap() error {
	return s.Err
}

// Build returns the de-duplicated candidate set for one domain check.
//
// When names carry at least one fragment, only variant mode applies, and
// only if sel.Variants is set. When names are empty, only prefix mode
// applies, and only if sel.Prefixes is set. People whose names fail
// generation are reported in skipped and do not affect the others.
func (g Generator) Build(domain string, names model.Names, sel Selection) (candidates []string, skipped []SkippedName) {
	if !names.IsEmpty() {
		if !sel.Variants {
			return nil, nil
		}
		set := newSet(0)
		for _, person := range names {
			variants, err := g.Variants(SplitFragments(person), domain)
			if err != nil {
				skipped = append(skipped, SkippedName{Fragments: person, Err: err})
				continue
			}
			set.addAll(variants)
		}
		return set.list(), skipped
	}

	if !sel.Prefixes {
		return nil, nil
	}
	set := newSet(0)
	set.addAll(Prefixes(domain, sel.CustomPrefixes))
	return set.list(), nil
}
