package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/flaxandteal/berlin/pkg/berlin"
)

func main() {
	var (
		datasetPath = pflag.StringP("dataset", "d", "./data", "path to the UN/LOCODE + ISO-3166 dataset directory")
		state       = pflag.StringP("state", "s", "", "ISO-3166-1 country filter")
		limit       = pflag.Uint32P("limit", "l", berlin.DefaultLimit, "maximum number of results")
		levDistance = pflag.Uint32P("lev-distance", "e", berlin.DefaultLevDistance, "fuzzy edit-distance bound (1-2; 0 selects the default 2)")
		asJSON      = pflag.Bool("json", false, "print full location records as JSON")
	)
	pflag.Parse()

	if pflag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: berlin-search [flags] <query>")
		pflag.PrintDefaults()
		os.Exit(2)
	}
	query := pflag.Arg(0)

	db, err := berlin.Load(*datasetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load dataset: %v\n", err)
		os.Exit(1)
	}

	result := db.Search(query, berlin.QueryOptions{
		StateFilter: *state,
		Limit:       *limit,
		LevDistance: *levDistance,
	})

	if len(result.Results) == 0 {
		fmt.Println("no matches")
		return
	}

	if *asJSON {
		type resultView struct {
			Location berlin.LocationView `json:"loc"`
			Score    float64             `json:"score"`
			Offset   berlin.Offset       `json:"offset"`
		}
		views := make([]resultView, 0, len(result.Results))
		for _, r := range result.Results {
			views = append(views, resultView{Location: r.Location.View(db.Interner), Score: r.Score, Offset: r.Offset})
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(views); err != nil {
			fmt.Fprintf(os.Stderr, "encode results: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for _, r := range result.Results {
		fmt.Printf("%s\t%.1f\t%s\n", r.Location.Key, r.Score, db.Interner.Resolve(r.Location.CanonicalName()))
	}
}
