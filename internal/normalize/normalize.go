package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// folds maps lowercase letters that NFKD leaves intact to their usual
// ASCII spelling.
var folds = strings.NewReplacer(
	"ı", "i",
	"ł", "l",
	"ŀ", "l",
	"ø", "o",
	"đ", "d",
	"ð", "d",
	"ħ", "h",
	"þ", "th",
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
)

// Name converts an arbitrary name fragment into a lowercase ASCII token
// containing only [a-z0-9].
//
//	Name("François") == "francois"
//	Name("Akyazı")   == "akyazi"
//	Name("O'Brien")  == "obrien"
//
// Name is idempotent.
func Name(s string) string {
	// Casers and transform chains keep internal state, so each call builds
	// its own to stay safe for concurrent use.
	lower := cases.Lower(language.Und).String(s)
	lower = folds.Replace(lower)

	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(stripMarks, lower)
	if err != nil {
		decomposed = lower
	}

	return strings.Map(keepASCIIAlnum, decomposed)
}

// Names normalizes every fragment in order. Empty results are kept so the
// output lines up with the input.
func Names(fragments []string) []string {
	out := make([]string, len(fragments))
	for i, f := range fragments {
		out[i] = Name(f)
	}
	return out
}

func keepASCIIAlnum(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return r
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A')
	default:
		return -1
	}
}
