package bdrom

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultLabel is used when neither the image nor the directory tree yields a
// usable volume label.
const DefaultLabel = "BDROM"

// SanitizeLabel turns a raw volume label into a single safe path element.
// It returns "" when nothing usable is left.
func SanitizeLabel(raw string) string {
	t := transform.Chain(
		norm.NFC,
		runes.Remove(runes.Predicate(unicode.IsControl)),
		runes.Map(func(r rune) rune {
			switch r {
			case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
				return '_'
			}
			return r
		}),
	)
	out, _, err := transform.String(t, raw)
	if err != nil {
		return ""
	}
	out = strings.TrimSpace(out)
	out = strings.Trim(out, ".")
	return strings.TrimSpace(out)
}

func chooseLabel(candidates ...string) string {
	for _, candidate := range candidates {
		if label := SanitizeLabel(candidate); label != "" {
			return label
		}
	}
	return DefaultLabel
}
