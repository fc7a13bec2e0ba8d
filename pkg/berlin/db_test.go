package berlin

import "testing"

func loadTestDb(t *testing.T) *Db {
	t.Helper()
	db, err := Load(writeTestDataset(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return db
}

func TestScenarioFuzzyMatchWithStateFilter(t *testing.T) {
	db := loadTestDb(t)
	sr := db.Search("house prices in londo", QueryOptions{StateFilter: "gb", Limit: 1})

	if len(sr.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1: %v", len(sr.Results), sr.Results)
	}
	if sr.Results[0].Location.Key != NewLocationKey(EncodingUNLOCODE, "gb:lon") {
		t.Errorf("top result = %s, want UN-LOCODE-gb:lon", sr.Results[0].Location.Key)
	}
	if sr.Results[0].Offset != (Offset{16, 21}) {
		t.Errorf("offset = %+v, want {16,21}", sr.Results[0].Offset)
	}
	foundIn := false
	for _, w := range sr.Plan.StopWords {
		if w == "in" {
			foundIn = true
		}
	}
	if !foundIn {
		t.Errorf("StopWords = %v, want to include 'in'", sr.Plan.StopWords)
	}
}

func TestScenarioNameWordTokenizationFindsVegas(t *testing.T) {
	db := loadTestDb(t)
	sr := db.Search("vegas", QueryOptions{Limit: 1})

	if len(sr.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1: %v", len(sr.Results), sr.Results)
	}
	if sr.Results[0].Location.Key != NewLocationKey(EncodingUNLOCODE, "us:lvs") {
		t.Errorf("top result = %s, want UN-LOCODE-us:lvs", sr.Results[0].Location.Key)
	}
}

func TestScenarioStateFilterRanksLocalSubdivisionAboveForeignHomonym(t *testing.T) {
	db := loadTestDb(t)
	sr := db.Search("new york UK", QueryOptions{StateFilter: "gb", Limit: 1})

	if len(sr.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1: %v", len(sr.Results), sr.Results)
	}
	if sr.Results[0].Location.Key != NewLocationKey(EncodingUNLOCODE, "gb:nyk") {
		t.Errorf("top result = %s, want UN-LOCODE-gb:nyk (New York, Lincolnshire)", sr.Results[0].Location.Key)
	}
}

func TestScenarioExactNameMatch(t *testing.T) {
	db := loadTestDb(t)
	sr := db.Search("manchester population", QueryOptions{StateFilter: "gb", Limit: 1})

	if len(sr.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1: %v", len(sr.Results), sr.Results)
	}
	if sr.Results[0].Location.Key != NewLocationKey(EncodingUNLOCODE, "gb:man") {
		t.Errorf("top result = %s, want UN-LOCODE-gb:man", sr.Results[0].Location.Key)
	}
	if sr.Results[0].Offset.Start > sr.Results[0].Offset.End {
		t.Errorf("invalid offset %+v", sr.Results[0].Offset)
	}
}

func TestScenarioCodeLookup(t *testing.T) {
	db := loadTestDb(t)
	sr := db.Search("gb", QueryOptions{Limit: 1})

	if len(sr.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1: %v", len(sr.Results), sr.Results)
	}
	if sr.Results[0].Location.Key != NewLocationKey(EncodingISO31661, "gb") {
		t.Errorf("top result = %s, want ISO-3166-1-gb", sr.Results[0].Location.Key)
	}
}

func TestScenarioNoMatchReturnsEmpty(t *testing.T) {
	db := loadTestDb(t)
	sr := db.Search("xyzzyqq", QueryOptions{Limit: 5})

	if len(sr.Results) != 0 {
		t.Errorf("Results = %v, want empty", sr.Results)
	}
}

func TestSearchIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	db := loadTestDb(t)
	first := db.Search("new york", QueryOptions{Limit: 5})
	for i := 0; i < 5; i++ {
		again := db.Search("new york", QueryOptions{Limit: 5})
		if len(again.Results) != len(first.Results) {
			t.Fatalf("run %d: len(Results) = %d, want %d", i, len(again.Results), len(first.Results))
		}
		for j := range first.Results {
			if again.Results[j].Location.Key != first.Results[j].Location.Key {
				t.Errorf("run %d: Results[%d] = %s, want %s", i, j, again.Results[j].Location.Key, first.Results[j].Location.Key)
			}
		}
	}
}

func TestStateFilterSoundness(t *testing.T) {
	db := loadTestDb(t)
	sr := db.Search("new york", QueryOptions{StateFilter: "gb", Limit: 10})

	for _, r := range sr.Results {
		okState := r.Location.State != nil && r.Location.State.Code == "gb"
		okCountryItself := r.Location.Encoding == EncodingISO31661 && r.Location.Key == NewLocationKey(EncodingISO31661, "gb")
		if !okState && !okCountryItself {
			t.Errorf("result %s violates state filter gb", r.Location.Key)
		}
	}
}

func TestQueryReturnsLocationsOnly(t *testing.T) {
	db := loadTestDb(t)
	locs := db.Query("manchester", "gb", 1)
	if len(locs) != 1 || locs[0].Key != NewLocationKey(EncodingUNLOCODE, "gb:man") {
		t.Errorf("Query(manchester) = %v, want [UN-LOCODE-gb:man]", locs)
	}
}
