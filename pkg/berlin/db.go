package berlin

// Db is the immutable, shared handle produced by Load: the Interner,
// LocationStore, and Index that every query runs against read-only, plus
// the scoring configuration. There is no mutation path once Load returns
// (spec Lifecycle / §9 "No global mutable state").
type Db struct {
	Interner *Interner
	Store    *LocationStore
	Index    *Index
	Scoring  ScoringConfig
}

// Load builds a Db from a directory containing the UN/LOCODE and ISO-3166
// dataset files (§6.3), interning every name/code and building the
// prefix/fuzzy indexes. Ingestion failure (DatasetInvalid) is fatal: the
// caller must refuse to serve rather than run with a partially built Db.
func Load(path string) (*Db, error) {
	interner := NewInterner()
	store := NewLocationStore()

	if err := IngestDirectory(path, interner, store); err != nil {
		return nil, err
	}
	if err := store.Validate(); err != nil {
		return nil, err
	}

	idx, err := BuildIndex(interner, store)
	if err != nil {
		return nil, err
	}

	return &Db{
		Interner: interner,
		Store:    store,
		Index:    idx,
		Scoring:  DefaultScoringConfig(),
	}, nil
}

// QueryOptions mirrors the HTTP surface's parameters (§6.1) for the
// embedded binding's richer Search call.
type QueryOptions struct {
	StateFilter string
	Limit       uint32
	LevDistance uint32
}

// SearchResult is the full per-query output: the analyzed plan and the
// ranked results, matching the HTTP response body shape (§6.1).
type SearchResult struct {
	Plan    *QueryPlan
	Results []Result
}

// Search runs the full pipeline: analyze, retrieve, score, boost. It is a
// pure function of (q, opts, Db); every query is independent and
// thread-safe against the shared read-only Db (§5 Scheduling model).
func (db *Db) Search(q string, opts QueryOptions) SearchResult {
	plan := Analyze(q, AnalyzeOptions{
		StateFilter: opts.StateFilter,
		Limit:       opts.Limit,
		LevDistance: opts.LevDistance,
	}, db.Interner, db.Index)

	candidates := Retrieve(plan, db.Interner, db.Index, db.Store)
	scores := Score(db.Scoring, candidates)
	results := Boost(scores, db.Store, plan.StateFilter, plan.Limit)

	return SearchResult{Plan: plan, Results: results}
}

// Query is the embedded-binding operation from §6.2: equivalent to Search
// but returning the ordered Location list only.
func (db *Db) Query(q string, state string, limit uint32) []*Location {
	sr := db.Search(q, QueryOptions{StateFilter: state, Limit: limit, LevDistance: DefaultLevDistance})
	out := make([]*Location, 0, len(sr.Results))
	for _, r := range sr.Results {
		out = append(out, r.Location)
	}
	return out
}
