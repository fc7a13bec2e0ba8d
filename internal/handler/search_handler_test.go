package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/flaxandteal/berlin/pkg/berlin"
)

const (
	testCountriesCSV = "code,name\ngb,United Kingdom\n"
	testLocodesCSV   = "country_code,locode,name,alt_names,subdiv_code,supedup\ngb,lon,London,,,\n"
)

func testDb(t *testing.T) *berlin.Db {
	t.Helper()
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "countries.csv"), []byte(testCountriesCSV), 0o644)
	os.WriteFile(filepath.Join(dir, "subdivisions.csv"), []byte("country_code,subdiv_code,name\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "locodes.csv"), []byte(testLocodesCSV), 0o644)

	db, err := berlin.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return db
}

func TestSearchHandlerReturnsResults(t *testing.T) {
	h := NewSearchHandler(testDb(t))
	req := httptest.NewRequest(http.MethodGet, "/berlin/search?q=london&state=gb&limit=1", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Query   berlin.QueryPlan `json:"query"`
		Results []struct {
			Loc berlin.LocationView `json:"loc"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1: %s", len(body.Results), rec.Body.String())
	}
	if body.Results[0].Loc.Key != berlin.NewLocationKey(berlin.EncodingUNLOCODE, "gb:lon") {
		t.Errorf("result key = %s, want UN-LOCODE-gb:lon", body.Results[0].Loc.Key)
	}
	if len(body.Results[0].Loc.Names) == 0 || body.Results[0].Loc.Names[0] != "london" {
		t.Errorf("result names = %v, want resolved string \"london\" first", body.Results[0].Loc.Names)
	}
	if body.Results[0].Loc.State == nil || body.Results[0].Loc.State.Name != "united kingdom" {
		t.Errorf("result state = %v, want resolved name \"united kingdom\"", body.Results[0].Loc.State)
	}
}

func TestSearchHandlerInvalidLimit(t *testing.T) {
	h := NewSearchHandler(testDb(t))
	req := httptest.NewRequest(http.MethodGet, "/berlin/search?q=london&limit=notanumber", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchHandlerInvalidLevDistance(t *testing.T) {
	h := NewSearchHandler(testDb(t))
	req := httptest.NewRequest(http.MethodGet, "/berlin/search?q=london&lev_distance=abc", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	h := NewSearchHandler(testDb(t))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
