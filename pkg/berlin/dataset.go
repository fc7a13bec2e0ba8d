package berlin

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Dataset ingestion is explicitly out of the core's scope (spec §1: "the
// CSV/JSON ingestion of the raw UN/LOCODE and ISO datasets" is an external
// collaborator); this file implements the one canonical format §6.3
// requires the core to accept, using only the standard library's
// encoding/csv — there is no third-party CSV/ISO dataset library anywhere
// in the retrieval pack to ground a dependency on, and the format itself is
// a handful of flat, comma-separated files, not a concern any of the
// pack's domain libraries (FST, text normalization, similarity) addresses.
const (
	countriesFile    = "countries.csv"
	subdivisionsFile = "subdivisions.csv"
	locodesFile      = "locodes.csv"
)

// IngestDirectory loads countries.csv, subdivisions.csv, and locodes.csv
// from dir, interning every name/code and populating store. Order matters:
// countries must be loaded before subdivisions and locodes so their state
// references can be checked against the loaded country codes.
func IngestDirectory(dir string, interner *Interner, store *LocationStore) error {
	countryNames, err := ingestCountries(filepath.Join(dir, countriesFile), interner, store)
	if err != nil {
		return err
	}

	subdivNames, err := ingestSubdivisions(filepath.Join(dir, subdivisionsFile), interner, store, countryNames)
	if err != nil {
		return err
	}

	if err := ingestLocodes(filepath.Join(dir, locodesFile), interner, store, countryNames, subdivNames); err != nil {
		return err
	}

	return nil
}

// ingestCountries loads ISO-3166-1 records. Columns: code,name. Returns a
// map of known country codes to the InternID of their actual name, so
// StateRef.Name in subdivisions/locodes can reference the country's name
// rather than its code.
func ingestCountries(path string, interner *Interner, store *LocationStore) (map[string]InternID, error) {
	known := make(map[string]InternID)

	err := eachRecord(path, 2, func(line int, rec []string) error {
		code := normalizeCode(rec[0])
		name := strings.TrimSpace(rec[1])
		if code == "" {
			return &DatasetError{File: path, Line: line, Field: "code", Err: errors.New("empty country code")}
		}
		if name == "" {
			return &DatasetError{File: path, Line: line, Field: "name", Err: errors.New("empty country name")}
		}

		nameNorm, _ := NormalizeString(name)
		nameID := interner.Intern(nameNorm)

		loc := &Location{
			Key:      NewLocationKey(EncodingISO31661, code),
			Encoding: EncodingISO31661,
			Names:    []InternID{nameID},
			Codes:    []InternID{interner.Intern(code)},
		}
		if err := store.Add(loc); err != nil {
			return &DatasetError{File: path, Line: line, Err: err}
		}
		known[code] = nameID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return known, nil
}

// ingestSubdivisions loads ISO-3166-2 records. Columns:
// country_code,subdiv_code,name. Returns a map of "country_code:subdiv_code"
// to the InternID of the subdivision's own name, for ingestLocodes to
// reference when building a UN-LOCODE record's SubdivRef.
func ingestSubdivisions(path string, interner *Interner, store *LocationStore, known map[string]InternID) (map[string]InternID, error) {
	subdivNames := make(map[string]InternID)

	err := eachRecord(path, 3, func(line int, rec []string) error {
		countryCode := normalizeCode(rec[0])
		subdivCode := normalizeCode(rec[1])
		name := strings.TrimSpace(rec[2])

		countryNameID, ok := known[countryCode]
		if !ok {
			return &DatasetError{File: path, Line: line, Field: "country_code", Err: ErrUnknownCountry}
		}
		if subdivCode == "" {
			return &DatasetError{File: path, Line: line, Field: "subdiv_code", Err: errors.New("empty subdivision code")}
		}
		if name == "" {
			return &DatasetError{File: path, Line: line, Field: "name", Err: errors.New("empty subdivision name")}
		}

		nameNorm, _ := NormalizeString(name)
		nameID := interner.Intern(nameNorm)

		id := countryCode + ":" + subdivCode
		loc := &Location{
			Key:      NewLocationKey(EncodingISO31662, id),
			Encoding: EncodingISO31662,
			Names:    []InternID{nameID},
			Codes:    []InternID{interner.Intern(subdivCode)},
			State:    &StateRef{Code: countryCode, Name: countryNameID},
		}
		if err := store.Add(loc); err != nil {
			return &DatasetError{File: path, Line: line, Err: err}
		}
		subdivNames[id] = nameID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subdivNames, nil
}

// ingestLocodes loads UN/LOCODE records. Columns:
// country_code,locode,name,alt_names,subdiv_code,supedup
//
// alt_names is a semicolon-separated list of alternate names (may be
// empty). subdiv_code and supedup are optional trailing columns.
func ingestLocodes(path string, interner *Interner, store *LocationStore, known map[string]InternID, subdivNames map[string]InternID) error {
	return eachRecord(path, 3, func(line int, rec []string) error {
		countryCode := normalizeCode(rec[0])
		locode := normalizeCode(rec[1])
		name := strings.TrimSpace(rec[2])

		countryNameID, ok := known[countryCode]
		if !ok {
			return &DatasetError{File: path, Line: line, Field: "country_code", Err: ErrUnknownCountry}
		}
		if locode == "" {
			return &DatasetError{File: path, Line: line, Field: "locode", Err: errors.New("empty locode")}
		}
		if name == "" {
			return &DatasetError{File: path, Line: line, Field: "name", Err: errors.New("empty locode name")}
		}

		altNames := column(rec, 3)
		subdivCode := normalizeCode(column(rec, 4))
		supedup := strings.TrimSpace(column(rec, 5))

		nameNorm, _ := NormalizeString(name)
		names := []InternID{interner.Intern(nameNorm)}
		if altNames != "" {
			for _, alt := range strings.Split(altNames, ";") {
				alt = strings.TrimSpace(alt)
				if alt == "" {
					continue
				}
				altNorm, _ := NormalizeString(alt)
				names = append(names, interner.Intern(altNorm))
			}
		}

		id := countryCode + ":" + locode
		loc := &Location{
			Key:      NewLocationKey(EncodingUNLOCODE, id),
			Encoding: EncodingUNLOCODE,
			Names:    names,
			Codes:    []InternID{interner.Intern(locode)},
			State:    &StateRef{Code: countryCode, Name: countryNameID},
		}
		if subdivCode != "" {
			subdivNameID, ok := subdivNames[countryCode+":"+subdivCode]
			if !ok {
				// No matching subdivisions.csv row; Validate will reject
				// this record for its missing ISO-3166-2 parent, but a
				// name is still required to build the SubdivRef.
				subdivNameID = interner.Intern(subdivCode)
			}
			loc.Subdiv = &SubdivRef{Code: subdivCode, Name: subdivNameID}
		}
		if supedup != "" {
			key := NewLocationKey(EncodingUNLOCODE, countryCode+":"+normalizeCode(supedup))
			loc.Supedup = &key
		}

		if err := store.Add(loc); err != nil {
			return &DatasetError{File: path, Line: line, Err: err}
		}
		return nil
	})
}

func normalizeCode(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func column(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return rec[i]
}

// eachRecord opens a CSV file, skips its header row, and calls fn for every
// subsequent record with at least minFields columns. Missing files are a
// DatasetInvalid failure: the canonical dataset layout requires all three
// files to be present.
func eachRecord(path string, minFields int, fn func(line int, rec []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return &DatasetError{File: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	line := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &DatasetError{File: path, Line: line, Err: err}
		}
		line++
		if line == 1 {
			continue // header
		}
		if len(rec) < minFields {
			return &DatasetError{File: path, Line: line, Err: fmt.Errorf("expected at least %d fields, got %d", minFields, len(rec))}
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
	return nil
}
