package berlin

import "strings"

// stopWords is the fixed set excluded from candidate search terms (GLOSSARY:
// Stop words).
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "in": {}, "at": {}, "on": {},
	"of": {}, "for": {}, "to": {}, "and": {}, "or": {},
}

func isStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// SearchTerm is one candidate unit of the query: a single word or a
// consecutive word pair, with the byte offset it occupies in the normalized
// query.
type SearchTerm struct {
	Text  string
	Start int
	End   int
}

// QueryPlan is the output of the QueryAnalyzer (C5): the raw and normalized
// query, the stop words found, high-confidence code hits, and the
// partitioned exact/non-exact search terms.
type QueryPlan struct {
	Raw              string
	Normalized       string
	StopWords        []string
	Codes            []string
	ExactMatches     []SearchTerm
	NotExactMatches  []SearchTerm
	StateFilter      string
	Limit            uint32
	LevenshteinDist  uint32
}

// AnalyzeOptions carries the query-time parameters from the caller
// (§4.5 inputs).
type AnalyzeOptions struct {
	StateFilter string
	Limit       uint32
	LevDistance uint32
}

// DefaultLimit and DefaultLevDistance are the spec's documented defaults
// for an omitted limit/lev_distance.
const (
	DefaultLimit       uint32 = 1
	DefaultLevDistance uint32 = 2
)

// ClampLevDistance enforces the {0,1,2} domain from §4.5.
func ClampLevDistance(d uint32) uint32 {
	if d > 2 {
		return 2
	}
	return d
}

// Analyze turns a raw query into a QueryPlan, using interner and idx to
// classify search terms as exact or not and to detect code hits.
func Analyze(rawQuery string, opts AnalyzeOptions, interner *Interner, idx *Index) *QueryPlan {
	normalized, words := NormalizeString(rawQuery)

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	// A zero LevDistance is treated as "not specified" and defaults to 2,
	// the same convention as Limit. Exact-only matching therefore cannot be
	// requested: a LevDistance of 0 (including lev_distance=0 over HTTP)
	// runs the fuzzy path at distance 2.
	rawLevDist := opts.LevDistance
	if rawLevDist == 0 {
		rawLevDist = DefaultLevDistance
	}
	levDist := ClampLevDistance(rawLevDist)

	plan := &QueryPlan{
		Raw:             rawQuery,
		Normalized:      normalized,
		StateFilter:     strings.ToLower(opts.StateFilter),
		Limit:           limit,
		LevenshteinDist: levDist,
	}

	for _, w := range words {
		if isStopWord(w) {
			plan.StopWords = append(plan.StopWords, w)
		}
	}

	plan.Codes = collectCodes(words, idx)

	terms := candidateTerms(normalized, words)
	for _, t := range terms {
		if id, ok := interner.Lookup(t.Text); ok && idx.HasName(id) {
			plan.ExactMatches = append(plan.ExactMatches, t)
		} else {
			plan.NotExactMatches = append(plan.NotExactMatches, t)
		}
	}

	return plan
}

// collectCodes finds tokens of length 2 or 3 that CodeMap resolves to at
// least one Location (§4.5 step 3).
func collectCodes(words []string, idx *Index) []string {
	var codes []string
	seen := make(map[string]struct{})
	for _, w := range words {
		if len(w) != 2 && len(w) != 3 {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		if len(idx.CodeLookup(w)) > 0 {
			codes = append(codes, w)
			seen[w] = struct{}{}
		}
	}
	return codes
}

// candidateTerms generates every single word and every consecutive word
// pair from the normalized query, excluding any term that is solely a stop
// word, each tagged with its byte offset in the normalized string
// (§4.5 step 4, and the Candidate.offset requirement of §4.6).
func candidateTerms(normalized string, words []string) []SearchTerm {
	offsets := wordOffsets(normalized, words)

	var terms []SearchTerm
	for i, w := range words {
		if !isStopWord(w) {
			terms = append(terms, SearchTerm{Text: w, Start: offsets[i].start, End: offsets[i].end})
		}
		if i+1 < len(words) {
			pair := w + " " + words[i+1]
			if !isStopWord(pair) {
				terms = append(terms, SearchTerm{
					Text:  pair,
					Start: offsets[i].start,
					End:   offsets[i+1].end,
				})
			}
		}
	}
	return terms
}

type offset struct{ start, end int }

// wordOffsets locates each word's byte span within normalized. Since
// normalization collapses separators to single spaces deterministically,
// a left-to-right scan finds each word exactly once.
func wordOffsets(normalized string, words []string) []offset {
	out := make([]offset, len(words))
	pos := 0
	for i, w := range words {
		idx := strings.Index(normalized[pos:], w)
		start := pos + idx
		end := start + len(w)
		out[i] = offset{start: start, end: end}
		pos = end
	}
	return out
}
