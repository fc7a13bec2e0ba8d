package berlin

import "sort"

// Result is one ranked search result: a Location, its final score, and the
// query offset of the candidate that contributed most to that score.
type Result struct {
	Location *Location
	Score    float64
	Offset   Offset
}

// boostAncestor is the containment-confirmation boost: a descendant gets
// 0.25 x the ancestor's score when both are present in the result set.
const boostAncestor = 0.25

// boostDescendant is the weaker, symmetric boost a state gets when one of
// its children is also present.
const boostDescendant = 0.10

// stateFilterBonus is added when the query's state filter coincides with a
// Location's own state.
const stateFilterBonus = 50

// encodingPriority orders Locations by encoding for the tie-break rule:
// ISO-3166-1 > ISO-3166-2 > UN-LOCODE.
var encodingPriority = map[Encoding]int{
	EncodingISO31661: 0,
	EncodingISO31662: 1,
	EncodingUNLOCODE: 2,
}

// Boost builds the transient subdivision/state containment graph over the
// surviving Locations of a single query, applies the containment and
// state-filter boosts, resolves the supedup rule, and returns the final
// ranked, limit-truncated result list (C8).
//
// None of this is stateful beyond the single call: every invocation is a
// pure function of (scores, store, stateFilter, limit).
func Boost(scores []LocationScore, store *LocationStore, stateFilter string, limit uint32) []Result {
	type node struct {
		loc   *Location
		score float64
	}

	nodes := make(map[LocationKey]*node, len(scores))
	for _, ls := range scores {
		loc, ok := store.Get(ls.LocationKey)
		if !ok {
			continue
		}
		nodes[ls.LocationKey] = &node{loc: loc, score: ls.Score}
	}

	// Both boost passes below read from a snapshot taken before the pass
	// runs and only ever write into the live nodes map, so the result does
	// not depend on Go's randomized map iteration order: every read sees a
	// value fixed before the pass started, regardless of which node the
	// range loop visits first.

	// Containment confirmation: ancestor -> descendant, reading pre-boost
	// ancestor scores.
	preBoost := make(map[LocationKey]float64, len(nodes))
	for key, n := range nodes {
		preBoost[key] = n.score
	}
	for _, n := range nodes {
		for _, ancestorKey := range ancestorKeys(n.loc) {
			if ancestorScore, ok := preBoost[ancestorKey]; ok {
				n.score += boostAncestor * ancestorScore
			}
		}
	}

	// Symmetric, weaker boost: state <- child, reading each child's score
	// as confirmed by the pass above.
	afterAncestorBoost := make(map[LocationKey]float64, len(nodes))
	for key, n := range nodes {
		afterAncestorBoost[key] = n.score
	}
	for key, n := range nodes {
		for _, ancestorKey := range ancestorKeys(n.loc) {
			if a, ok := nodes[ancestorKey]; ok {
				a.score += boostDescendant * afterAncestorBoost[key]
			}
		}
	}

	// State-filter bonus.
	if stateFilter != "" {
		for _, n := range nodes {
			if n.loc.State != nil && n.loc.State.Code == stateFilter {
				n.score += stateFilterBonus
			}
		}
	}

	// Supedup rule: drop a Location if its superseder is also present.
	for key, n := range nodes {
		if n.loc.Supedup != nil {
			if _, present := nodes[*n.loc.Supedup]; present {
				delete(nodes, key)
			}
		}
	}

	offsets := make(map[LocationKey]Offset, len(scores))
	for _, ls := range scores {
		offsets[ls.LocationKey] = bestOffset(ls)
	}

	results := make([]Result, 0, len(nodes))
	for key, n := range nodes {
		results = append(results, Result{Location: n.loc, Score: n.score, Offset: offsets[key]})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		pi, pj := encodingPriority[results[i].Location.Encoding], encodingPriority[results[j].Location.Encoding]
		if pi != pj {
			return pi < pj
		}
		return results[i].Location.Key < results[j].Location.Key
	})

	if uint32(len(results)) > limit {
		results = results[:limit]
	}
	return results
}

// ancestorKeys returns the LocationKeys of loc's administrative ancestors:
// its subdivision (if any) and its state.
func ancestorKeys(loc *Location) []LocationKey {
	var out []LocationKey
	if loc.State != nil && loc.Subdiv != nil {
		out = append(out, NewLocationKey(EncodingISO31662, loc.State.Code+":"+loc.Subdiv.Code))
	}
	if loc.State != nil {
		out = append(out, NewLocationKey(EncodingISO31661, loc.State.Code))
	}
	return out
}

// bestOffset returns the offset of the highest-scoring candidate that
// contributed to a Location's aggregated score, used as the result's
// reported query span.
func bestOffset(ls LocationScore) Offset {
	var best ScoredCandidate
	for i, c := range ls.Candidates {
		if i == 0 || c.Score > best.Score {
			best = c
		}
	}
	return best.Offset
}
