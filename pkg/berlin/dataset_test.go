package berlin

import (
	"os"
	"path/filepath"
	"testing"
)

const testCountriesCSV = `code,name
gb,United Kingdom
us,United States
`

const testSubdivisionsCSV = `country_code,subdiv_code,name
gb,lco,Lincolnshire
`

const testLocodesCSV = `country_code,locode,name,alt_names,subdiv_code,supedup
gb,lon,London,,,
gb,man,Manchester,,,
gb,nyk,New York,,lco,
us,nyc,New York,,,
us,lvs,Las Vegas,,,
`

// writeTestDataset materializes the canonical three-file dataset layout
// under a fresh temp directory and returns its path.
func writeTestDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"countries.csv":    testCountriesCSV,
		"subdivisions.csv": testSubdivisionsCSV,
		"locodes.csv":      testLocodesCSV,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}
	return dir
}

func TestIngestDirectoryRoundTrip(t *testing.T) {
	dir := writeTestDataset(t)
	interner := NewInterner()
	store := NewLocationStore()

	if err := IngestDirectory(dir, interner, store); err != nil {
		t.Fatalf("IngestDirectory: %v", err)
	}
	if err := store.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if store.Len() != 8 {
		t.Errorf("store.Len() = %d, want 8 (2 countries + 1 subdivision + 5 locodes)", store.Len())
	}

	loc, ok := store.Get(NewLocationKey(EncodingUNLOCODE, "gb:lon"))
	if !ok {
		t.Fatal("expected UN-LOCODE-gb:lon to be present")
	}
	if got := interner.Resolve(loc.CanonicalName()); got != "london" {
		t.Errorf("canonical name = %q, want london", got)
	}
	if loc.State == nil || loc.State.Code != "gb" {
		t.Errorf("expected gb:lon to have state gb, got %v", loc.State)
	}
	if got := interner.Resolve(loc.State.Name); got != "united kingdom" {
		t.Errorf("state name = %q, want \"united kingdom\" (not the code \"gb\")", got)
	}

	nyk, ok := store.Get(NewLocationKey(EncodingUNLOCODE, "gb:nyk"))
	if !ok {
		t.Fatal("expected UN-LOCODE-gb:nyk to be present")
	}
	if nyk.Subdiv == nil {
		t.Fatal("expected gb:nyk to have a subdivision")
	}
	if got := interner.Resolve(nyk.Subdiv.Name); got != "lincolnshire" {
		t.Errorf("subdiv name = %q, want \"lincolnshire\" (not the code \"lco\")", got)
	}
}

func TestIngestDirectoryRejectsUnknownCountry(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "countries.csv"), []byte(testCountriesCSV), 0o644)
	os.WriteFile(filepath.Join(dir, "subdivisions.csv"), []byte(testSubdivisionsCSV), 0o644)
	os.WriteFile(filepath.Join(dir, "locodes.csv"), []byte("country_code,locode,name,alt_names,subdiv_code,supedup\nzz,xyz,Nowhere,,,\n"), 0o644)

	interner := NewInterner()
	store := NewLocationStore()
	err := IngestDirectory(dir, interner, store)
	if err == nil {
		t.Fatal("expected an error for a locode referencing an unknown country")
	}
}

func TestIngestDirectoryMissingFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	interner := NewInterner()
	store := NewLocationStore()

	if err := IngestDirectory(dir, interner, store); err == nil {
		t.Fatal("expected an error when the dataset directory is empty")
	}
}
