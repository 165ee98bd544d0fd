package candidate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/mailscout/internal/normalize"
)

// DefaultMaxTokens is the token cap used when a Generator has none set.
// Five tokens produce at most 5!*2+5+5 = 250 addresses.
const DefaultMaxTokens = 5

// ErrTooManyTokens is returned when a name has more tokens than the
// generator accepts.
var ErrTooManyTokens = errors.New("too many name tokens")

// Generator derives candidate addresses from name tokens.
type Generator struct {
	// Normalize runs every token through normalize.Name before use.
	Normalize bool

	// MaxTokens caps the number of tokens per name. Zero or less means
	// DefaultMaxTokens.
	MaxTokens int
}

// NewGenerator returns a Generator with normalization enabled and the
// default token cap.
func NewGenerator() Generator {
	return Generator{Normalize: true, MaxTokens: DefaultMaxTokens}
}

// Variants returns the variant addresses for one person's name tokens.
//
// The result is the de-duplicated union of:
//   - every permutation of the full token list joined with ""
//   - every permutation of the full token list joined with "."
//   - each token alone
//   - each token's first character
//
// Tokens that are empty (before or after normalization) are dropped. When
// no token remains the result is empty. Order is deterministic but carries
// no meaning.
func (g Generator) Variants(tokens []string, domain string) ([]string, error) {
	cleaned := g.clean(tokens)
	if len(cleaned) == 0 {
		return nil, nil
	}

	maxTokens := g.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if len(cleaned) > maxTokens {
		return nil, fmt.Errorf("%w: %d tokens, limit is %d", ErrTooManyTokens, len(cleaned), maxTokens)
	}

	set := newSet(factorial(len(cleaned))*2 + len(cleaned)*2)
	permute(cleaned, func(p []string) {
		set.add(strings.Join(p, "") + "@" + domain)
		set.add(strings.Join(p, ".") + "@" + domain)
	})
	for _, tok := range cleaned {
		set.add(tok + "@" + domain)
	}
	for _, tok := range cleaned {
		_, size := utf8.DecodeRuneInString(tok)
		set.add(tok[:size] + "@" + domain)
	}

	return set.list(), nil
}

func (g Generator) clean(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if g.Normalize {
			tok = normalize.Name(tok)
		}
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// SplitFragments splits raw name fragments on whitespace into tokens.
//
//	SplitFragments([]string{"John Smith", "Jr"}) == []string{"John", "Smith", "Jr"}
func SplitFragments(fragments []string) []string {
	var out []string
	for _, f := range fragments {
		out = append(out, strings.Fields(f)...)
	}
	return out
}

// permute calls fn with every ordering of items, in lexicographic order of
// positions. The slice passed to fn is reused between calls.
func permute(items []string, fn func([]string)) {
	n := len(items)
	perm := make([]string, 0, n)
	used := make([]bool, n)

	var walk func()
	walk = func() {
		if len(perm) == n {
			fn(perm)
			return
		}
		for i := range items {
			if used[i] {
				continue
			}
			used[i] = true
			perm = append(perm, items[i])
			walk()
			perm = perm[:len(perm)-1]
			used[i] = false
		}
	}
	walk()
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
