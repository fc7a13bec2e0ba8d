package berlin

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonTokenRun matches any run of characters outside [a-z0-9], the step 4
// normalization rule: collapse such a run to a single ASCII space.
var nonTokenRun = regexp.MustCompile(`[^a-z0-9]+`)

// diacriticStripper decomposes to NFD, drops combining marks (Mn), and
// recomposes to NFC, per the normalization pipeline's step 2.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripDiacritics removes combining diacritical marks from s, e.g. "café"
// becomes "cafe". Non-decomposable letters (ß, Cyrillic, Greek, ...) are
// untouched here; see transliterate for those.
func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize implements the Normalizer (C2): a pure function from raw bytes
// to a normalized Term and its word tokenization. It returns the full
// normalized string and the ordered list of word tokens produced by
// splitting on the spaces introduced during normalization.
//
// Steps (spec):
//  1. Unicode-lowercase.
//  2. Strip combining diacritics (NFD -> drop Mn -> NFC).
//  3. Transliterate remaining non-ASCII letters via a fixed table; anything
//     not covered is dropped.
//  4. Replace any run of characters outside [a-z0-9] with a single space.
//  5. Trim and collapse whitespace.
func Normalize(raw []byte) (normalized string, words []string) {
	s := strings.ToLower(string(raw))
	s = stripDiacritics(s)
	s = transliterate(s)
	s = nonTokenRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if s == "" {
		return "", nil
	}
	words = strings.Fields(s)
	return s, words
}

// NormalizeString is a convenience wrapper over Normalize for callers that
// already hold a string rather than raw bytes.
func NormalizeString(raw string) (normalized string, words []string) {
	return Normalize([]byte(raw))
}
