package berlin

import (
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// ScoringConfig centralizes the weights and anchors from §4.7 so property
// tests can sweep them; they are calibrated to the reference corpus and any
// change requires scenario re-baselining (spec Design notes).
type ScoringConfig struct {
	LevenshteinWeight float64
	JaroWinklerWeight float64

	AnchorExact         float64
	AnchorPrefixFull    float64
	AnchorPrefixPartial float64
	AnchorFuzzyD1       float64
	AnchorFuzzyD2       float64

	// ExactFloorBonus is added (post-anchor) to exact-path scores so that
	// an exact match always outranks anything reachable only via fuzzy.
	ExactFloorBonus float64

	// Threshold is the minimum aggregated per-location score to survive
	// into the hierarchy booster.
	Threshold float64
}

// DefaultScoringConfig returns the spec's calibrated constants.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		LevenshteinWeight:   0.6,
		JaroWinklerWeight:   0.4,
		AnchorExact:         1.0,
		AnchorPrefixFull:    0.9,
		AnchorPrefixPartial: 0.7,
		AnchorFuzzyD1:       0.6,
		AnchorFuzzyD2:       0.4,
		ExactFloorBonus:     300,
		Threshold:           200,
	}
}

func (cfg ScoringConfig) anchor(path RetrievalPath) float64 {
	switch path {
	case PathExact:
		return cfg.AnchorExact
	case PathPrefixFull:
		return cfg.AnchorPrefixFull
	case PathPrefixPartial:
		return cfg.AnchorPrefixPartial
	case PathFuzzyD1:
		return cfg.AnchorFuzzyD1
	case PathFuzzyD2:
		return cfg.AnchorFuzzyD2
	default:
		return 0
	}
}

// Similarity computes s(term, name) in [0, 1000]: a weighted blend of
// normalized Levenshtein similarity and Jaro-Winkler similarity (§4.7).
func Similarity(cfg ScoringConfig, term, name string) float64 {
	if term == "" && name == "" {
		return 1000
	}

	dist := levenshtein.ComputeDistance(term, name)
	maxLen := max(len([]rune(term)), len([]rune(name)))
	levSim := 1.0
	if maxLen > 0 {
		levSim = 1.0 - float64(dist)/float64(maxLen)
	}
	if levSim < 0 {
		levSim = 0
	}

	jwSim := smetrics.JaroWinkler(term, name, 0.1, 4)

	return (cfg.LevenshteinWeight*levSim + cfg.JaroWinklerWeight*jwSim) * 1000
}

// ScoredCandidate is a Candidate with its computed similarity score after
// the path anchor has been applied.
type ScoredCandidate struct {
	Candidate
	Score float64
}

// LocationScore is a Location's aggregated score: the sum of its best
// per-term candidate scores, plus the offsets that produced them.
type LocationScore struct {
	LocationKey LocationKey
	Score       float64
	Candidates  []ScoredCandidate
}

// Score computes a per-candidate similarity score, anchors it by retrieval
// path, and aggregates to a per-location score, discarding Locations below
// cfg.Threshold. Each matched query term is counted at most once per
// Location: the best-scoring Candidate for that term wins (§4.7
// Aggregation).
func Score(cfg ScoringConfig, candidates []Candidate) []LocationScore {
	type bestKey struct {
		loc  LocationKey
		term string
	}
	best := make(map[bestKey]ScoredCandidate)

	for _, c := range candidates {
		sim := Similarity(cfg, c.Term, c.MatchedName)
		anchored := sim * cfg.anchor(c.Path)
		if c.Path == PathExact {
			anchored += cfg.ExactFloorBonus
		}

		k := bestKey{c.LocationKey, c.Term}
		if cur, ok := best[k]; !ok || anchored > cur.Score {
			best[k] = ScoredCandidate{Candidate: c, Score: anchored}
		}
	}

	totals := make(map[LocationKey]*LocationScore)
	for _, sc := range best {
		ls, ok := totals[sc.LocationKey]
		if !ok {
			ls = &LocationScore{LocationKey: sc.LocationKey}
			totals[sc.LocationKey] = ls
		}
		ls.Score += sc.Score
		ls.Candidates = append(ls.Candidates, sc)
	}

	out := make([]LocationScore, 0, len(totals))
	for _, ls := range totals {
		if ls.Score >= cfg.Threshold {
			out = append(out, *ls)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationKey < out[j].LocationKey })
	return out
}
