package berlin

import "sync"

// InternID is a dense, opaque integer identifying a normalized string.
// Once assigned it is immutable; IDs are never reused.
type InternID uint32

// Interner assigns stable dense InternIDs to normalized Terms with
// append-only semantics. The same term always yields the same ID, and the
// order in which a fixed input corpus is interned is deterministic, so two
// loads of the same dataset produce identical ID assignments.
//
// Interning only happens during dataset load, which runs on a single
// goroutine; the mutex exists purely to make that assumption explicit and
// cheap to guard rather than to support concurrent writers. Resolve and
// Lookup are pure reads and need no synchronization once loading completes.
type Interner struct {
	mu sync.Mutex

	byTerm map[string]InternID
	arena  []byte
	// offsets[i] is the start of term i in arena; offsets[len(offsets)-1]
	// is the end of the last term.
	offsets []uint32
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		byTerm:  make(map[string]InternID),
		offsets: []uint32{0},
	}
}

// Intern returns the existing ID for term if present; otherwise it assigns
// the next dense ID and stores the canonical bytes.
func (in *Interner) Intern(term string) InternID {
	in.mu.Lock()
	defer in.mu.Unlock()

	if id, ok := in.byTerm[term]; ok {
		return id
	}

	id := InternID(len(in.offsets) - 1)
	in.arena = append(in.arena, term...)
	in.offsets = append(in.offsets, uint32(len(in.arena)))
	in.byTerm[term] = id
	return id
}

// Resolve returns the canonical bytes for id. It is total on issued IDs;
// calling it with an ID that was never assigned is a programmer error and
// panics, matching Go slice-index-out-of-range semantics rather than adding
// an error return for something that cannot happen post-load.
func (in *Interner) Resolve(id InternID) string {
	start, end := in.offsets[id], in.offsets[id+1]
	return string(in.arena[start:end])
}

// Lookup returns the ID for term if it has been interned, the hot path for
// exact-match detection in the query analyzer.
func (in *Interner) Lookup(term string) (InternID, bool) {
	id, ok := in.byTerm[term]
	return id, ok
}

// Len returns the number of distinct terms interned so far.
func (in *Interner) Len() int {
	return len(in.offsets) - 1
}
