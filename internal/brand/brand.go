// Package brand classifies product names against a fixed vocabulary.
package brand

import (
	"strings"

	"github.com/shelfminer/shelfminer/internal/types"
)

// Detector matches names against an ordered brand vocabulary by
// case-insensitive substring containment. Vocabulary order is a
// deliberate tie-break: where aliases overlap, the more specific
// spelling must be listed first so it wins.
type Detector struct {
	vocabulary []string
	lowered    []string
}

// NewDetector creates a Detector over the given vocabulary. The slice
// is copied; declared order is preserved.
func NewDetector(vocabulary []string) *Detector {
	d := &Detector{
		vocabulary: make([]string, len(vocabulary)),
		lowered:    make([]string, len(vocabulary)),
	}
	for i, b := range vocabulary {
		d.vocabulary[i] = b
		d.lowered[i] = strings.ToLower(b)
	}
	return d
}

// Detect returns the first vocabulary entry contained in the name, in
// the entry's canonical spelling, or the Unknown sentinel. Total over
// all inputs: an empty name yields Unknown, never an error.
func (d *Detector) Detect(name string) string {
	if name == "" {
		return types.BrandUnknown
	}
	lower := strings.ToLower(name)
	for i, b := range d.lowered {
		if strings.Contains(lower, b) {
			return d.vocabulary[i]
		}
	}
	return types.BrandUnknown
}

// Apply stamps a detected brand onto each product, preferring the
// cleaned name and falling back to the original. Returns new values;
// input records are not mutated.
func (d *Detector) Apply(products []types.CanonicalProduct) []types.CanonicalProduct {
	out := make([]types.CanonicalProduct, len(products))
	for i, p := range products {
		name := p.Name
		if name == "" {
			name = p.OriginalName
		}
		p.Brand = d.Detect(name)
		out[i] = p
	}
	return out
}
