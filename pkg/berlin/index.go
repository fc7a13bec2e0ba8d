package berlin

import (
	"sort"
	"strings"
)

// Index holds the four sub-indexes built once at load time (C4): the exact
// name and code maps, and the prefix/fuzzy FSTs over the interned name set.
// All of it is read-only after Build returns.
type Index struct {
	interner *Interner

	// nameMap maps the InternID of every canonical or alternate name to
	// the set of LocationKeys that carry it.
	nameMap map[InternID]map[LocationKey]struct{}

	// codeMap maps a normalized code (or "<state>:<subdiv>" composite) to
	// the set of LocationKeys it identifies.
	codeMap map[string]map[LocationKey]struct{}

	names *NameFST
}

// BuildIndex constructs the Index over every Location in store, using
// interner for both lookups and the FST key set. It is called once at load
// time; the result is shared read-only across all queries.
func BuildIndex(interner *Interner, store *LocationStore) (*Index, error) {
	idx := &Index{
		interner: interner,
		nameMap:  make(map[InternID]map[LocationKey]struct{}),
		codeMap:  make(map[string]map[LocationKey]struct{}),
	}

	for _, loc := range store.All() {
		for _, nameID := range loc.Names {
			idx.addName(nameID, loc.Key)
			idx.addNameWords(interner, nameID, loc.Key)
		}
		for _, codeID := range loc.Codes {
			idx.addCode(interner.Resolve(codeID), loc.Key)
		}
		if loc.State != nil && loc.Subdiv != nil {
			composite := loc.State.Code + ":" + loc.Subdiv.Code
			idx.addCode(composite, loc.Key)
		}
	}

	names, err := BuildNameFST(interner)
	if err != nil {
		return nil, err
	}
	idx.names = names

	return idx, nil
}

func (idx *Index) addName(nameID InternID, key LocationKey) {
	set, ok := idx.nameMap[nameID]
	if !ok {
		set = make(map[LocationKey]struct{})
		idx.nameMap[nameID] = set
	}
	set[key] = struct{}{}
}

// addNameWords indexes the individual words of a multi-word name under
// NameMap too, e.g. "las vegas" also registers "vegas" and "las" as exact
// lookup keys for this Location. A single-word name is a no-op here since
// addName already covers it (§8 scenario 2: "demonstrates name-word
// tokenization").
func (idx *Index) addNameWords(interner *Interner, nameID InternID, key LocationKey) {
	words := strings.Fields(interner.Resolve(nameID))
	if len(words) <= 1 {
		return
	}
	for _, w := range words {
		wordID := interner.Intern(w)
		idx.addName(wordID, key)
	}
}

func (idx *Index) addCode(code string, key LocationKey) {
	set, ok := idx.codeMap[code]
	if !ok {
		set = make(map[LocationKey]struct{})
		idx.codeMap[code] = set
	}
	set[key] = struct{}{}
}

// NameLookup returns the (sorted, deterministic) set of LocationKeys
// carrying the given interned name, or nil if the name maps to nothing.
func (idx *Index) NameLookup(nameID InternID) []LocationKey {
	return sortedKeys(idx.nameMap[nameID])
}

// HasName reports whether nameID has at least one associated Location; used
// by the query analyzer to classify a term as an exact match.
func (idx *Index) HasName(nameID InternID) bool {
	return len(idx.nameMap[nameID]) > 0
}

// CodeLookup returns the LocationKeys for a short code or
// "<state>:<subdiv>" composite, both lowercased per normalization.
func (idx *Index) CodeLookup(code string) []LocationKey {
	return sortedKeys(idx.codeMap[code])
}

// PrefixSearch returns every (name, InternID) pair whose name begins with
// prefix, as stored in the name FST.
func (idx *Index) PrefixSearch(prefix string) ([]FSTHit, error) {
	hits, err := idx.names.Prefix(prefix)
	return idx.nameHits(hits), err
}

// FuzzySearch returns every (name, InternID) pair within maxEdits of term.
func (idx *Index) FuzzySearch(term string, maxEdits uint8) ([]FSTHit, error) {
	hits, err := idx.names.Fuzzy(term, maxEdits)
	return idx.nameHits(hits), err
}

// nameHits keeps only the FST hits whose term is a Location name; the FST
// also holds interned codes, which NameMap does not carry.
func (idx *Index) nameHits(hits []FSTHit) []FSTHit {
	out := hits[:0]
	for _, h := range hits {
		if idx.HasName(h.NameID) {
			out = append(out, h)
		}
	}
	return out
}

// ExpandName resolves a name FST hit to its LocationKeys via NameMap, the
// side table the FST output (an InternID) indexes into.
func (idx *Index) ExpandName(nameID InternID) []LocationKey {
	return idx.NameLookup(nameID)
}

func sortedKeys(set map[LocationKey]struct{}) []LocationKey {
	if len(set) == 0 {
		return nil
	}
	out := make([]LocationKey, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
