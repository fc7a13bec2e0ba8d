package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/flaxandteal/berlin/internal/logger"
	"github.com/flaxandteal/berlin/pkg/berlin"
)

// SearchHandler serves the spec's §6.1 HTTP surface over a loaded Db.
type SearchHandler struct {
	db *berlin.Db
}

// NewSearchHandler wraps a loaded Db for the search endpoint.
func NewSearchHandler(db *berlin.Db) *SearchHandler {
	return &SearchHandler{db: db}
}

type searchResponse struct {
	TimeMS  float64             `json:"time"`
	Query   *berlin.QueryPlan   `json:"query"`
	Results []searchResultEntry `json:"results"`
}

type searchResultEntry struct {
	Location berlin.LocationView `json:"loc"`
	Score    float64             `json:"score"`
	Offset   berlin.Offset       `json:"offset"`
}

// Search handles GET /berlin/search?q=...&state=...&limit=...&lev_distance=...
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	log := logger.ForRequest(r.Context())

	q := r.URL.Query().Get("q")

	opts := berlin.QueryOptions{
		StateFilter: r.URL.Query().Get("state"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		opts.Limit = uint32(limit)
	}

	if raw := r.URL.Query().Get("lev_distance"); raw != "" {
		levDist, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid lev_distance")
			return
		}
		opts.LevDistance = uint32(levDist)
	}

	start := time.Now()
	result := h.db.Search(q, opts)
	elapsed := time.Since(start)

	log.Info().
		Str("q", q).
		Str("state", opts.StateFilter).
		Uint32("limit", opts.Limit).
		Int("results", len(result.Results)).
		Dur("durationMs", elapsed).
		Msg("search served")

	entries := make([]searchResultEntry, 0, len(result.Results))
	for _, r := range result.Results {
		entries = append(entries, searchResultEntry{
			Location: r.Location.View(h.db.Interner),
			Score:    r.Score,
			Offset:   r.Offset,
		})
	}

	writeJSON(w, http.StatusOK, searchResponse{
		TimeMS:  float64(elapsed.Microseconds()) / 1000.0,
		Query:   result.Plan,
		Results: entries,
	})
}

// Health reports readiness: it always answers 200 "ok" together with the
// number of Locations in the loaded Db.
func (h *SearchHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"locations": h.db.Store.Len(),
	})
}
