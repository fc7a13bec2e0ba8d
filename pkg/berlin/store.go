package berlin

import "fmt"

// Encoding classifies the dataset a Location record came from.
type Encoding string

const (
	EncodingUNLOCODE   Encoding = "UN-LOCODE"
	EncodingISO31661   Encoding = "ISO-3166-1"
	EncodingISO31662   Encoding = "ISO-3166-2"
)

// LocationKey is a human-readable stable key of the form
// "<encoding>-<id>", unique over the corpus, e.g. "UN-LOCODE-gb:lon".
type LocationKey string

// NewLocationKey builds the stable key for a record of the given encoding
// and natural identifier.
func NewLocationKey(enc Encoding, id string) LocationKey {
	return LocationKey(fmt.Sprintf("%s-%s", enc, id))
}

// StateRef is the containing country of a Location: its ISO-3166-1 code and
// the InternID of its name.
type StateRef struct {
	Code string
	Name InternID
}

// SubdivRef is the containing ISO-3166-2 subdivision of a Location: its
// subdivision code and the InternID of its name.
type SubdivRef struct {
	Code string
	Name InternID
}

// Location is a single corpus record: a UN/LOCODE entry, an ISO-3166-1
// country, or an ISO-3166-2 subdivision.
type Location struct {
	Key      LocationKey
	Encoding Encoding

	// Names is an ordered, non-empty set of InternIDs; Names[0] is
	// canonical.
	Names []InternID

	// Codes is an ordered set of short codes (possibly empty), interned
	// alongside names.
	Codes []InternID

	// State is set iff Encoding is UN-LOCODE or ISO-3166-2.
	State *StateRef

	// Subdiv is set only for UN-LOCODE records that belong to a
	// subdivision; when set, an ISO-3166-2 Location with id
	// "<State.Code>:<Subdiv.Code>" must exist in the same store.
	Subdiv *SubdivRef

	// Supedup, if set, names a preferred/superseding LocationKey: this
	// record is only returned when targeted directly (never promoted by
	// the hierarchy booster over its superseder).
	Supedup *LocationKey
}

// CanonicalName returns the InternID of the canonical (first) name.
func (l *Location) CanonicalName() InternID {
	return l.Names[0]
}

// LocationView is the wire representation of a Location: every InternID
// resolved back to its string through the Interner that produced it. A
// Location alone can't marshal to JSON meaningfully, since Names/Codes are
// just dense integers outside the process holding the Interner; callers at
// the HTTP/CLI boundary build a LocationView instead of encoding a Location
// directly.
type LocationView struct {
	Key      LocationKey  `json:"key"`
	Encoding Encoding     `json:"encoding"`
	Names    []string     `json:"names"`
	Codes    []string     `json:"codes"`
	State    *StateView   `json:"state,omitempty"`
	Subdiv   *SubdivView  `json:"subdiv,omitempty"`
	Supedup  *LocationKey `json:"supedup,omitempty"`
}

// StateView is a StateRef with its name resolved.
type StateView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SubdivView is a SubdivRef with its name resolved.
type SubdivView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// View resolves l's interned fields through interner into a LocationView
// suitable for JSON encoding.
func (l *Location) View(interner *Interner) LocationView {
	names := make([]string, len(l.Names))
	for i, id := range l.Names {
		names[i] = interner.Resolve(id)
	}
	codes := make([]string, len(l.Codes))
	for i, id := range l.Codes {
		codes[i] = interner.Resolve(id)
	}

	v := LocationView{
		Key:      l.Key,
		Encoding: l.Encoding,
		Names:    names,
		Codes:    codes,
		Supedup:  l.Supedup,
	}
	if l.State != nil {
		v.State = &StateView{Code: l.State.Code, Name: interner.Resolve(l.State.Name)}
	}
	if l.Subdiv != nil {
		v.Subdiv = &SubdivView{Code: l.Subdiv.Code, Name: interner.Resolve(l.Subdiv.Name)}
	}
	return v
}

// LocationStore owns all Location records, keyed by their stable
// LocationKey. It is built once at load time and is read-only thereafter;
// no mutation paths exist once Freeze-equivalent loading completes.
type LocationStore struct {
	byKey map[LocationKey]*Location
	order []LocationKey
}

// NewLocationStore creates an empty store.
func NewLocationStore() *LocationStore {
	return &LocationStore{byKey: make(map[LocationKey]*Location)}
}

// Add inserts loc into the store. It returns ErrDuplicateKey if a record
// with the same key already exists, since two records sharing a key would
// violate the corpus-wide uniqueness invariant.
func (s *LocationStore) Add(loc *Location) error {
	if _, exists := s.byKey[loc.Key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, loc.Key)
	}
	s.byKey[loc.Key] = loc
	s.order = append(s.order, loc.Key)
	return nil
}

// Get returns the Location for key, or (nil, false) if it doesn't exist.
func (s *LocationStore) Get(key LocationKey) (*Location, bool) {
	loc, ok := s.byKey[key]
	return loc, ok
}

// All returns every Location in insertion order, for index construction and
// validation passes. The returned slice must not be mutated.
func (s *LocationStore) All() []*Location {
	out := make([]*Location, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKey[k])
	}
	return out
}

// Len returns the number of Locations in the store.
func (s *LocationStore) Len() int {
	return len(s.order)
}

// Validate checks the corpus-wide invariants from the data model: state is
// set iff the encoding requires it, and every subdiv reference resolves to
// an actual ISO-3166-2 record. It is run once after load; a failure here is
// DatasetInvalid and fatal.
func (s *LocationStore) Validate() error {
	for _, loc := range s.byKey {
		switch loc.Encoding {
		case EncodingUNLOCODE, EncodingISO31662:
			if loc.State == nil {
				return fmt.Errorf("%w: %s", ErrStateRequired, loc.Key)
			}
		case EncodingISO31661:
			if loc.State != nil {
				return fmt.Errorf("%w: %s", ErrStateForbidden, loc.Key)
			}
		}

		if loc.Subdiv != nil {
			if loc.State == nil {
				return fmt.Errorf("%w: %s has subdiv but no state", ErrStateRequired, loc.Key)
			}
			parentID := loc.State.Code + ":" + loc.Subdiv.Code
			parentKey := NewLocationKey(EncodingISO31662, parentID)
			if _, ok := s.byKey[parentKey]; !ok {
				return fmt.Errorf("%w: %s references %s", ErrMissingSubdivisionParent, loc.Key, parentKey)
			}
		}
	}
	return nil
}
