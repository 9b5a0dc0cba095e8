// Package normalize converts raw product fields into canonical forms:
// cleaned names, isolated prices, compact units, multipack descriptors,
// and URL-safe slugs. Every transformation is a pure function of its
// input; records are cleaned independently and in input order.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shelfminer/shelfminer/internal/types"
)

// Substitution is one ordered rewrite rule.
type Substitution struct {
	Pattern *regexp.Regexp
	Replace string
}

// Rules carries every pattern table the cleaner applies. Order within
// each table is part of the contract: earlier entries win.
type Rules struct {
	// Descriptors are packaging words removed from names as
	// whole-word, case-insensitive matches.
	Descriptors []string

	// PricePrefixes are promotional markers stripped from prices in
	// priority order.
	PricePrefixes []string

	// Units rewrite number+unit-word occurrences to the compact
	// canonical suffix, applied sequentially over the whole string.
	Units []Substitution

	// Multipack patterns are matched against the original name; the
	// first match's canonical rendering is the pack descriptor.
	Multipack []Substitution
}

// DefaultRules returns the documented default pattern tables.
func DefaultRules() Rules {
	return Rules{
		Descriptors:   []string{"Can", "Bottle", "Bar", "Pack", "Pk", "Pkt", "Packet"},
		PricePrefixes: []string{"PMP", "PM", "RRP"},
		Units: []Substitution{
			{Pattern: regexp.MustCompile(`(?i)(\d+)\s*(?:grams?|g)\b`), Replace: "${1}g"},
			{Pattern: regexp.MustCompile(`(?i)(\d+)\s*(?:milliliters?|ml)\b`), Replace: "${1}ml"},
			{Pattern: regexp.MustCompile(`(?i)(\d+)\s*(?:liters?|litres?|l)\b`), Replace: "${1}l"},
			{Pattern: regexp.MustCompile(`(?i)(\d+)\s*(?:kilograms?|kg)\b`), Replace: "${1}kg"},
		},
		Multipack: []Substitution{
			{Pattern: regexp.MustCompile(`(?i)(\d+)\s*x\s*(\d+\s*(?:ml|g|l|kg))`), Replace: "${1}x${2}"},
			{Pattern: regexp.MustCompile(`(?i)(\d+)\s*x\s*`), Replace: "${1}x"},
			{Pattern: regexp.MustCompile(`(?i)(\d+)\s*pk\b`), Replace: "${1}pk"},
			{Pattern: regexp.MustCompile(`(?i)(\d+)\s*pack\b`), Replace: "${1} Pack"},
		},
	}
}

var (
	priceValuePattern = regexp.MustCompile(`[£$€]?\s*\d+\.?\d*`)
	slugStripPattern  = regexp.MustCompile(`[^a-z0-9-]`)
	slugHyphenPattern = regexp.MustCompile(`-+`)
)

// Cleaner applies the rule tables to raw products.
type Cleaner struct {
	rules         Rules
	descriptorRes []*regexp.Regexp
	prefixRes     []*regexp.Regexp
}

// NewCleaner compiles a Cleaner for the given rules.
func NewCleaner(rules Rules) *Cleaner {
	c := &Cleaner{rules: rules}
	for _, d := range rules.Descriptors {
		c.descriptorRes = append(c.descriptorRes, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(d)+`\b`))
	}
	for _, p := range rules.PricePrefixes {
		c.prefixRes = append(c.prefixRes, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(p)+`\s*`))
	}
	return c
}

// Clean folds one raw product into a canonical product. The original
// name is captured verbatim before any transformation; multipack
// detection runs against it specifically, because descriptor stripping
// can remove the "Pack" token the patterns need.
func (c *Cleaner) Clean(raw types.RawProduct) types.CanonicalProduct {
	name := c.CleanName(raw.Name)
	return types.CanonicalProduct{
		OriginalName: raw.Name,
		Name:         name,
		Price:        c.CleanPrice(raw.Price),
		VolumeWeight: c.StandardizeUnits(raw.VolumeWeight),
		Multipack:    c.DetectMultipack(raw.Name),
		Slug:         GenerateSlug(name),
		ImageURL:     raw.ImageURL,
	}
}

// CleanAll cleans a sequence of raw products, preserving order.
func (c *Cleaner) CleanAll(raws []types.RawProduct) []types.CanonicalProduct {
	out := make([]types.CanonicalProduct, len(raws))
	for i, raw := range raws {
		out[i] = c.Clean(raw)
	}
	return out
}

// CleanName title-cases the name, strips packaging descriptors as
// whole words, and collapses repeated whitespace. Stripping happens
// after casing so the mixed-case descriptor list matches consistently.
func (c *Cleaner) CleanName(name string) string {
	if name == "" {
		return ""
	}
	name = titleCase(name)
	for _, re := range c.descriptorRes {
		name = re.ReplaceAllString(name, "")
	}
	return strings.Join(strings.Fields(name), " ")
}

// CleanPrice strips promotional prefixes in priority order, then
// isolates the first currency-optional numeric substring. A non-empty
// input with no numeric substring comes back trimmed, never emptied.
func (c *Cleaner) CleanPrice(price string) string {
	if price == "" {
		return ""
	}
	for _, re := range c.prefixRes {
		price = re.ReplaceAllString(price, "")
	}
	if m := priceValuePattern.FindString(price); m != "" {
		return strings.TrimSpace(m)
	}
	return strings.TrimSpace(price)
}

// StandardizeUnits rewrites number+unit occurrences to the compact
// canonical suffix. The substitutions run over the whole string, so a
// value can contain several standardized quantities. Re-applying is a
// no-op.
func (c *Cleaner) StandardizeUnits(volumeWeight string) string {
	if volumeWeight == "" {
		return ""
	}
	text := strings.TrimSpace(volumeWeight)
	for _, sub := range c.rules.Units {
		text = sub.Pattern.ReplaceAllString(text, sub.Replace)
	}
	return strings.TrimSpace(text)
}

// DetectMultipack scans a name for the first pack-descriptor match and
// returns its canonical rendering, or "" when none match.
func (c *Cleaner) DetectMultipack(name string) string {
	if name == "" {
		return ""
	}
	for _, sub := range c.rules.Multipack {
		if m := sub.Pattern.FindString(name); m != "" {
			return strings.TrimSpace(sub.Pattern.ReplaceAllString(m, sub.Replace))
		}
	}
	return ""
}

// GenerateSlug derives a URL-safe identifier from a cleaned name:
// ASCII-lowercase, hyphen-joined, no leading/trailing/duplicate
// hyphens. Applying it to its own output is a no-op.
func GenerateSlug(name string) string {
	if name == "" {
		return ""
	}
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = slugHyphenPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// titleCase uppercases every letter that follows a non-letter and
// lowercases the rest, so "coca-cola zero" becomes "Coca-Cola Zero".
func titleCase(s string) string {
	runes := []rune(s)
	prevLetter := false
	for i, r := range runes {
		if unicode.IsLetter(r) {
			if prevLetter {
				runes[i] = unicode.ToLower(r)
			} else {
				runes[i] = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
	}
	return string(runes)
}
