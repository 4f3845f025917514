package record

// Kind identifies one of the three auxiliary record tables.
type Kind string

// Record kinds.
const (
	KindPerson   Kind = "person"
	KindLocation Kind = "location"
	KindTag      Kind = "tag"
)

// Kinds lists all record kinds in a stable order.
var Kinds = []Kind{KindPerson, KindLocation, KindTag}

// ParseKind maps a wire token to a Kind. Returns false for unknown tokens.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindPerson, KindLocation, KindTag:
		return Kind(s), true
	}
	return "", false
}

// Detail is one kind-specific key/value pair on a record, such as a
// person's birth date or a location's address.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Record is a person, location, or tag entry from an auxiliary table.
// Records are identified by display name, compared case-insensitively.
// A Stub record is synthesized on demand for a referenced name with no
// table entry; stubs are never stored in the graph.
type Record struct {
	Kind     Kind         `json:"kind"`
	Name     string       `json:"name"`
	RecordID string       `json:"-"`
	Slug     string       `json:"slug,omitempty"`
	Subtitle string       `json:"subtitle,omitempty"`
	Summary  string       `json:"summary,omitempty"`
	Images   []Attachment `json:"images,omitempty"`
	Files    []Attachment `json:"files,omitempty"`
	Details  []Detail     `json:"details,omitempty"`

	// Related record names partitioned by kind. A record's own name never
	// appears in its own kind's list.
	RelatedPeople    []string `json:"related_people,omitempty"`
	RelatedLocations []string `json:"related_locations,omitempty"`
	RelatedTags      []string `json:"related_tags,omitempty"`

	// Events holds resolved related-event display names.
	Events []string `json:"events,omitempty"`

	Stub bool `json:"stub,omitempty"`
}

// Related returns the related-name list for the given kind.
func (r *Record) Related(kind Kind) []string {
	switch kind {
	case KindPerson:
		return r.RelatedPeople
	case KindLocation:
		return r.RelatedLocations
	case KindTag:
		return r.RelatedTags
	}
	return nil
}

// SetRelated replaces the related-name list for the given kind.
func (r *Record) SetRelated(kind Kind, names []string) {
	switch kind {
	case KindPerson:
		r.RelatedPeople = names
	case KindLocation:
		r.RelatedLocations = names
	case KindTag:
		r.RelatedTags = names
	}
}
