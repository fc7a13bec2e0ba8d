package berlin

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable and fatal error kinds a caller may
// need to distinguish. EmptyResult is deliberately not an error (spec
// Failure semantics): an empty result list is returned as a normal, empty
// slice.
var (
	// ErrInvalidParam names the recoverable QueryParamInvalid kind. No
	// function in this package returns it: the HTTP handler answers a
	// non-numeric limit or lev_distance with a 400 itself, and an
	// out-of-range lev_distance is clamped rather than rejected.
	ErrInvalidParam = errors.New("berlin: invalid query parameter")

	// ErrUnknownCountry is a DatasetInvalid cause: a subdivision or locode
	// record references a country code that was never loaded.
	ErrUnknownCountry = errors.New("berlin: unknown country code")

	// ErrDuplicateKey is a DatasetInvalid cause: two records in the dataset
	// share a LocationKey.
	ErrDuplicateKey = errors.New("berlin: duplicate location key")

	// ErrMissingSubdivisionParent is a DatasetInvalid cause: a location sets
	// subdiv but no ISO-3166-2 record exists for <state>:<subdiv>.
	ErrMissingSubdivisionParent = errors.New("berlin: subdivision parent not found")

	// ErrStateRequired is a DatasetInvalid cause: encoding requires state to
	// be set (UN-LOCODE or ISO-3166-2) but it was empty.
	ErrStateRequired = errors.New("berlin: state is required for this encoding")

	// ErrStateForbidden is a DatasetInvalid cause: encoding forbids state
	// (ISO-3166-1) but it was set.
	ErrStateForbidden = errors.New("berlin: state must be empty for this encoding")
)

// DatasetError wraps a DatasetInvalid failure with the source location that
// caused it. Ingestion failure is fatal: the process must refuse to serve
// (spec Failure semantics / Propagation).
type DatasetError struct {
	File  string
	Line  int
	Field string
	Err   error
}

func (e *DatasetError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s:%d: field %q: %v", e.File, e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *DatasetError) Unwrap() error { return e.Err }
