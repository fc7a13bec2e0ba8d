package berlin

import "testing"

func newAnalyzerFixture(t *testing.T) (*Interner, *Index) {
	t.Helper()
	interner := NewInterner()
	store := NewLocationStore()

	houseID := interner.Intern("house")
	loc := &Location{
		Key: NewLocationKey(EncodingUNLOCODE, "xx:hou"), Encoding: EncodingUNLOCODE,
		Names: []InternID{houseID}, Codes: []InternID{interner.Intern("hou")},
		State: &StateRef{Code: "xx"},
	}
	if err := store.Add(loc); err != nil {
		t.Fatalf("Add: %v", err)
	}

	gbID := interner.Intern("gb")
	gbLoc := &Location{
		Key: NewLocationKey(EncodingISO31661, "gb"), Encoding: EncodingISO31661,
		Names: []InternID{gbID}, Codes: []InternID{gbID},
	}
	if err := store.Add(gbLoc); err != nil {
		t.Fatalf("Add: %v", err)
	}

	idx, err := BuildIndex(interner, store)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return interner, idx
}

func TestAnalyzeStopWords(t *testing.T) {
	interner, idx := newAnalyzerFixture(t)
	plan := Analyze("house prices in londo", AnalyzeOptions{}, interner, idx)

	if len(plan.StopWords) != 1 || plan.StopWords[0] != "in" {
		t.Errorf("StopWords = %v, want [in]", plan.StopWords)
	}
}

func TestAnalyzeExactMatches(t *testing.T) {
	interner, idx := newAnalyzerFixture(t)
	plan := Analyze("house prices in londo", AnalyzeOptions{}, interner, idx)

	foundHouse := false
	for _, t2 := range plan.ExactMatches {
		if t2.Text == "house" {
			foundHouse = true
		}
	}
	if !foundHouse {
		t.Errorf("ExactMatches = %v, want to include 'house'", plan.ExactMatches)
	}
	for _, t2 := range plan.ExactMatches {
		if t2.Text == "prices" || t2.Text == "londo" {
			t.Errorf("unexpected exact match %q (not in NameMap)", t2.Text)
		}
	}
}

func TestAnalyzeCodes(t *testing.T) {
	interner, idx := newAnalyzerFixture(t)
	plan := Analyze("gb", AnalyzeOptions{}, interner, idx)

	if len(plan.Codes) != 1 || plan.Codes[0] != "gb" {
		t.Errorf("Codes = %v, want [gb]", plan.Codes)
	}
}

func TestAnalyzeDefaults(t *testing.T) {
	interner, idx := newAnalyzerFixture(t)
	plan := Analyze("anything", AnalyzeOptions{}, interner, idx)

	if plan.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", plan.Limit, DefaultLimit)
	}
	if plan.LevenshteinDist != DefaultLevDistance {
		t.Errorf("LevenshteinDist = %d, want %d", plan.LevenshteinDist, DefaultLevDistance)
	}
}

func TestClampLevDistance(t *testing.T) {
	tests := []struct {
		in, want uint32
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {100, 2},
	}
	for _, tt := range tests {
		if got := ClampLevDistance(tt.in); got != tt.want {
			t.Errorf("ClampLevDistance(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAnalyzeExcludesSoleStopWordTerms(t *testing.T) {
	interner, idx := newAnalyzerFixture(t)
	plan := Analyze("in", AnalyzeOptions{}, interner, idx)

	for _, t2 := range append(plan.ExactMatches, plan.NotExactMatches...) {
		if t2.Text == "in" {
			t.Errorf("expected sole stop word 'in' to be excluded from search terms")
		}
	}
}

func TestAnalyzeOffsetsMatchOriginalQuery(t *testing.T) {
	interner, idx := newAnalyzerFixture(t)
	plan := Analyze("house prices in londo", AnalyzeOptions{}, interner, idx)

	for _, term := range append(append([]SearchTerm{}, plan.ExactMatches...), plan.NotExactMatches...) {
		if term.Text == "londo" {
			if term.Start != 16 || term.End != 21 {
				t.Errorf("londo offset = {%d,%d}, want {16,21}", term.Start, term.End)
			}
		}
	}
}
