package types

// RawProduct is a single product record as extracted from a listing
// page, before any normalization. Fields hold the verbatim page text
// and may be empty; only Name is guaranteed non-empty by the extractor.
type RawProduct struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	VolumeWeight string `json:"volume_weight"`
	ImageURL     string `json:"image_url"`
}

// CanonicalProduct is a RawProduct after the full normalization,
// brand-detection, and slug-derivation pipeline. OriginalName keeps
// the verbatim extracted name for audit and is never mutated after
// capture; Name holds the cleaned form the slug derives from.
type CanonicalProduct struct {
	OriginalName string `json:"original_name"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	VolumeWeight string `json:"volume_weight"`
	Multipack    string `json:"multipack"`
	Slug         string `json:"slug"`
	Brand        string `json:"brand"`
	ImageURL     string `json:"image_url"`
}

// BrandUnknown is the sentinel brand for names that match no entry in
// the brand vocabulary.
const BrandUnknown = "Unknown"
