package model

import (
	"sort"
	"time"

	"golang.org/x/crypto/sha3"
)

// ThreatClass is a top-level category identifier in the remote
// platform's threat taxonomy (e.g., "malware").
type ThreatClass string

// ThreatProperty is a finer-grained attribute identifier associated
// with a threat class (e.g., "trojan"). The same identifier string may
// recur under different classes; no cross-class identity is implied.
type ThreatProperty string

// ClassificationReport is the result of one taxonomy retrieval run.
//
// Classes preserves the exact order returned by the remote service and
// is never resorted. PropertiesByClass is populated only when property
// retrieval was requested; a class whose property fetch failed is
// absent from the map, which is distinct from a class whose fetch
// succeeded with an empty list.
//
// Design decision: We use an explicit map rather than a default-valued
// accumulator so that "no data available" (key absent) and "empty list
// retrieved" (key present, empty slice) remain distinguishable. The
// renderer and the snapshot differ both rely on this distinction.
type ClassificationReport struct {
	// Endpoint is the taxonomy endpoint URL this report was built from.
	Endpoint string `json:"endpoint"`

	// Retrieved is the timestamp when retrieval started.
	Retrieved time.Time `json:"retrieved"`

	// Classes is the ordered sequence of threat class identifiers as
	// returned by the taxonomy service.
	Classes []ThreatClass `json:"threat_classes"`

	// PropertiesByClass maps a threat class to its ordered property
	// identifiers. Nil when property retrieval was not requested.
	PropertiesByClass map[ThreatClass][]ThreatProperty `json:"properties_by_class,omitempty"`
}

// NewClassificationReport creates an empty report for the given
// endpoint with the retrieval timestamp set to now.
func NewClassificationReport(endpoint string) *ClassificationReport {
	return &ClassificationReport{
		Endpoint:  endpoint,
		Retrieved: time.Now(),
	}
}

// Grouped reports whether the report carries a non-empty property
// mapping. Writers use this to choose between grouped and flat output.
func (r *ClassificationReport) Grouped() bool {
	return len(r.PropertiesByClass) > 0
}

// ClassCount returns the number of threat classes in the report.
func (r *ClassificationReport) ClassCount() int {
	return len(r.Classes)
}

// PropertyCount returns the total number of properties across all
// classes in the mapping.
func (r *ClassificationReport) PropertyCount() int {
	total := 0
	for _, props := range r.PropertiesByClass {
		total += len(props)
	}
	return total
}

// Properties returns the property list for the given class and whether
// the class is present in the mapping at all. The boolean lets callers
// distinguish a failed fetch (absent) from an empty result (present).
func (r *ClassificationReport) Properties(class ThreatClass) ([]ThreatProperty, bool) {
	props, ok := r.PropertiesByClass[class]
	return props, ok
}

// SetProperties records the property list for a class. Recording is
// what marks the class as "data available"; callers must not record
// classes whose retrieval failed.
func (r *ClassificationReport) SetProperties(class ThreatClass, props []ThreatProperty) {
	if r.PropertiesByClass == nil {
		r.PropertiesByClass = make(map[ThreatClass][]ThreatProperty)
	}
	r.PropertiesByClass[class] = props
}

// Fingerprint returns a SHA3-256 digest of the report content in a
// canonical form. Two reports with the same classes in the same order
// and the same per-class properties produce the same fingerprint,
// regardless of retrieval time. The snapshot database uses this to
// skip storing unchanged taxonomies.
func (r *ClassificationReport) Fingerprint() [32]byte {
	h := sha3.New256()

	for _, class := range r.Classes {
		h.Write([]byte(class))
		h.Write([]byte{0x00})
	}

	// Map iteration order is random, so walk the mapping keys sorted.
	// Class order is already captured by the loop above.
	keys := make([]ThreatClass, 0, len(r.PropertiesByClass))
	for class := range r.PropertiesByClass {
		keys = append(keys, class)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, class := range keys {
		h.Write([]byte{0x01})
		h.Write([]byte(class))
		h.Write([]byte{0x00})
		for _, prop := range r.PropertiesByClass[class] {
			h.Write([]byte(prop))
			h.Write([]byte{0x00})
		}
	}

	var sum [32]byte
	h.Sum(sum[:0])
	return sum
}
