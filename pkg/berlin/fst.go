package berlin

import (
	"bytes"
	"errors"
	"sort"

	"github.com/blevesearch/vellum"
	"github.com/blevesearch/vellum/levenshtein"
)

// FSTHit is one match returned by a prefix or fuzzy search over the name
// FST: the matched name bytes and the InternID the FST stored as its
// output, which indexes into NameMap (the side table the spec calls
// FSTOut -> set of LocationKey).
type FSTHit struct {
	Name   string
	NameID InternID
}

// NameFST is a read-only, lexicographically sorted finite-state
// transducer over every interned term (names and codes alike; Index
// filters its hits down to names), supporting prefix iteration and
// composition with a bounded Levenshtein automaton (C4 PrefixFST /
// FuzzyFST). Both sub-indexes share this single automaton, since they key
// on the same name set and differ only in how they're searched.
type NameFST struct {
	fst *vellum.FST

	// levBuilders caches one LevenshteinAutomatonBuilder per edit distance
	// (1 and 2 are the only values the spec allows); building a DFA for an
	// alphabet is non-trivial and is reused across queries.
	levBuilders map[uint8]*levenshtein.LevenshteinAutomatonBuilder
}

// BuildNameFST builds the shared FST over every term the interner has ever
// assigned an ID to. Keys must be inserted in lexicographic order, so
// interned terms are sorted by byte content before insertion; the FST
// output for each key is its InternID.
func BuildNameFST(interner *Interner) (*NameFST, error) {
	n := interner.Len()
	type kv struct {
		key []byte
		id  InternID
	}
	items := make([]kv, 0, n)
	for id := 0; id < n; id++ {
		nid := InternID(id)
		items = append(items, kv{key: []byte(interner.Resolve(nid)), id: nid})
	}
	sort.Slice(items, func(i, j int) bool { return bytes.Compare(items[i].key, items[j].key) < 0 })

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if err := builder.Insert(it.key, uint64(it.id)); err != nil {
			return nil, err
		}
	}
	if err := builder.Close(); err != nil {
		return nil, err
	}

	fst, err := vellum.Load(buf.Bytes())
	if err != nil {
		return nil, err
	}

	levBuilders := make(map[uint8]*levenshtein.LevenshteinAutomatonBuilder, 2)
	for _, d := range []uint8{1, 2} {
		lb, err := levenshtein.NewLevenshteinAutomatonBuilder(d, true)
		if err != nil {
			return nil, err
		}
		levBuilders[d] = lb
	}

	return &NameFST{fst: fst, levBuilders: levBuilders}, nil
}

// Prefix returns every (name, InternID) pair whose name begins with
// prefix.
func (n *NameFST) Prefix(prefix string) ([]FSTHit, error) {
	start := []byte(prefix)
	end := prefixUpperBound(start)

	itr, err := n.fst.Iterator(start, end)
	return n.collect(itr, err)
}

// Fuzzy returns every (name, InternID) pair within maxEdits of term, capped
// at distance 2 per the spec.
func (n *NameFST) Fuzzy(term string, maxEdits uint8) ([]FSTHit, error) {
	if maxEdits > 2 {
		maxEdits = 2
	}
	lb, ok := n.levBuilders[maxEdits]
	if !ok {
		return nil, nil
	}
	dfa, err := lb.BuildDfa(term, maxEdits)
	if err != nil {
		return nil, err
	}

	itr, err := n.fst.Search(dfa, nil, nil)
	return n.collect(itr, err)
}

func (n *NameFST) collect(itr *vellum.FSTIterator, err error) ([]FSTHit, error) {
	if errors.Is(err, vellum.ErrIteratorDone) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var hits []FSTHit
	for err == nil {
		key, val := itr.Current()
		hits = append(hits, FSTHit{Name: string(key), NameID: InternID(val)})
		err = itr.Next()
	}
	if errors.Is(err, vellum.ErrIteratorDone) {
		return hits, nil
	}
	return hits, err
}

// prefixUpperBound returns the smallest byte string that is lexically
// greater than every string starting with prefix, i.e. an exclusive upper
// bound for a prefix range scan. If prefix is all 0xff bytes (or empty),
// there is no finite upper bound and nil is returned, meaning "scan to the
// end of the keyspace".
func prefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
