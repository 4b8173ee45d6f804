// internal/scoring/normalize.go
package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds s for comparison: trimmed, lowercased, combining marks removed.
// "Insônia" and "insonia" normalize to the same key.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = strings.TrimSpace(s)
	}
	return strings.ToLower(folded)
}

// uniqueNormalized keeps the first original spelling of every distinct key.
func uniqueNormalized(values []string) (keys []string, originals []string) {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		k := Normalize(v)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
		originals = append(originals, strings.TrimSpace(v))
	}
	return keys, originals
}

// Dedupe drops blank entries and later spellings of a value already seen.
func Dedupe(values []string) []string {
	_, originals := uniqueNormalized(values)
	return originals
}
