package berlin

import (
	"sort"
	"sync"
)

// RetrievalPath identifies which of the three retrieval paths produced a
// Candidate; the Scorer applies a different anchor per path (§4.7).
type RetrievalPath int

const (
	PathExact RetrievalPath = iota
	PathPrefixFull
	PathPrefixPartial
	PathFuzzyD1
	PathFuzzyD2
)

// Candidate is one (location, term, raw-score) tuple produced by the
// Retriever, carrying the byte span in the normalized query that produced it.
type Candidate struct {
	LocationKey LocationKey
	Term        string
	MatchedName string
	Path        RetrievalPath
	Offset      Offset
}

// Offset is the [start, end) byte span of a search term in the normalized
// query (QueryPlan.Normalized). It equals the span in the raw query only
// where normalization leaves the text up to the term's end unchanged.
type Offset struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// minFuzzyTermLen is the spec's "too many spurious matches" floor: terms of
// this length or shorter never enter the fuzzy path.
const minFuzzyTermLen = 3

// Retrieve consumes a QueryPlan and produces the unioned, deduplicated
// candidate list across the exact, prefix, and fuzzy paths (C6). If
// plan.StateFilter is set, Candidates whose Location's state differs are
// dropped, unless the Location itself is that state.
func Retrieve(plan *QueryPlan, interner *Interner, idx *Index, store *LocationStore) []Candidate {
	var (
		mu    sync.Mutex
		raw   []Candidate
		wg    sync.WaitGroup
	)

	emit := func(cs []Candidate) {
		if len(cs) == 0 {
			return
		}
		mu.Lock()
		raw = append(raw, cs...)
		mu.Unlock()
	}

	// Exact path: NameMap hits for exact_matches, CodeMap hits for codes.
	wg.Add(1)
	go func() {
		defer wg.Done()
		emit(exactPath(plan, interner, idx))
	}()

	// Prefix path, one goroutine per not_exact term: spec permits a
	// data-parallel speedup within a single query as long as the result is
	// sorted before returning (§5), which dedupeBestPerPair below guarantees.
	for _, term := range plan.NotExactMatches {
		term := term
		wg.Add(1)
		go func() {
			defer wg.Done()
			emit(prefixPathForTerm(term, idx))
		}()
	}

	// Fuzzy path, also one goroutine per eligible term.
	for _, term := range plan.NotExactMatches {
		if len(term.Text) <= minFuzzyTermLen {
			continue
		}
		term := term
		wg.Add(1)
		go func() {
			defer wg.Done()
			emit(fuzzyPathForTerm(term, plan.LevenshteinDist, idx))
		}()
	}

	wg.Wait()

	deduped := dedupeBestPerPair(raw)
	return filterByState(deduped, plan.StateFilter, store)
}

func exactPath(plan *QueryPlan, interner *Interner, idx *Index) []Candidate {
	var out []Candidate
	for _, term := range plan.ExactMatches {
		id, ok := interner.Lookup(term.Text)
		if !ok {
			continue
		}
		for _, key := range idx.NameLookup(id) {
			out = append(out, Candidate{
				LocationKey: key,
				Term:        term.Text,
				MatchedName: term.Text,
				Path:        PathExact,
				Offset:      Offset{term.Start, term.End},
			})
		}
	}
	for _, code := range plan.Codes {
		for _, key := range idx.CodeLookup(code) {
			out = append(out, Candidate{
				LocationKey: key,
				Term:        code,
				MatchedName: code,
				Path:        PathExact,
				Offset:      findCodeOffset(plan, code),
			})
		}
	}
	return out
}

// findCodeOffset locates the byte span of a code token among the query's
// search terms; codes are always single words, so a direct scan of
// ExactMatches/NotExactMatches is sufficient.
func findCodeOffset(plan *QueryPlan, code string) Offset {
	for _, t := range plan.ExactMatches {
		if t.Text == code {
			return Offset{t.Start, t.End}
		}
	}
	for _, t := range plan.NotExactMatches {
		if t.Text == code {
			return Offset{t.Start, t.End}
		}
	}
	return Offset{}
}

func prefixPathForTerm(term SearchTerm, idx *Index) []Candidate {
	hits, err := idx.PrefixSearch(term.Text)
	if err != nil {
		return nil
	}
	var out []Candidate
	for _, hit := range hits {
		path := PathPrefixPartial
		if hit.Name == term.Text {
			path = PathPrefixFull
		}
		for _, key := range idx.ExpandName(hit.NameID) {
			out = append(out, Candidate{
				LocationKey: key,
				Term:        term.Text,
				MatchedName: hit.Name,
				Path:        path,
				Offset:      Offset{term.Start, term.End},
			})
		}
	}
	return out
}

func fuzzyPathForTerm(term SearchTerm, levDist uint32, idx *Index) []Candidate {
	maxEdits := uint8(ClampLevDistance(levDist))
	if maxEdits == 0 {
		return nil
	}
	var out []Candidate
	for d := uint8(1); d <= maxEdits; d++ {
		hits, err := idx.FuzzySearch(term.Text, d)
		if err != nil {
			continue
		}
		path := PathFuzzyD1
		if d == 2 {
			path = PathFuzzyD2
		}
		for _, hit := range hits {
			for _, key := range idx.ExpandName(hit.NameID) {
				out = append(out, Candidate{
					LocationKey: key,
					Term:        term.Text,
					MatchedName: hit.Name,
					Path:        path,
					Offset:      Offset{term.Start, term.End},
				})
			}
		}
	}
	return out
}

// dedupeBestPerPair keeps, for each (location_key, term) pair appearing via
// more than one path, only the entry with the strongest path anchor (exact
// > prefix-full > prefix-partial > fuzzy d1 > fuzzy d2, matching
// RetrievalPath's declaration order). The result is sorted by
// (LocationKey, Term) so it does not depend on goroutine scheduling.
func dedupeBestPerPair(cands []Candidate) []Candidate {
	type key struct {
		loc  LocationKey
		term string
	}
	best := make(map[key]Candidate)
	for _, c := range cands {
		k := key{c.LocationKey, c.Term}
		cur, ok := best[k]
		if !ok || c.Path < cur.Path {
			best[k] = c
		}
	}
	out := make([]Candidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LocationKey != out[j].LocationKey {
			return out[i].LocationKey < out[j].LocationKey
		}
		return out[i].Term < out[j].Term
	})
	return out
}

func filterByState(cands []Candidate, stateFilter string, store *LocationStore) []Candidate {
	if stateFilter == "" {
		return cands
	}
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		loc, ok := store.Get(c.LocationKey)
		if !ok {
			continue
		}
		if loc.Encoding == EncodingISO31661 && loc.Key == NewLocationKey(EncodingISO31661, stateFilter) {
			out = append(out, c)
			continue
		}
		if loc.State != nil && loc.State.Code == stateFilter {
			out = append(out, c)
		}
	}
	return out
}
