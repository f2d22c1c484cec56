package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var transliterations = strings.NewReplacer(
	"þ", "th", "Þ", "th",
	"ð", "d", "Ð", "d",
	"æ", "ae", "Æ", "ae",
	"ø", "o", "Ø", "o",
	"œ", "oe", "Œ", "oe",
	"ß", "ss",
	"ł", "l", "Ł", "l",
)

// Make returns the slug of s. Runs of characters other than ASCII letters
// and digits collapse into a single underscore, and leading or trailing
// underscores are trimmed. The result may be empty.
func Make(s string) string {
	s = transliterations.Replace(s)

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// MakeOr returns the slug of s, or fallback when the slug is empty.
func MakeOr(s, fallback string) string {
	if out := Make(s); out != "" {
		return out
	}
	return fallback
}
