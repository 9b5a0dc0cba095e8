// Package validate computes per-record quality results and aggregate
// corpus metrics for canonical products.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shelfminer/shelfminer/internal/types"
)

var (
	priceFormatPattern  = regexp.MustCompile(`[£$€]\s*\d+`)
	volumeFormatPattern = regexp.MustCompile(`(?i)\d+\s*(ml|g|l|kg)`)
)

// Result holds the validation outcome for a single product. Issues
// are missing required fields (correctness); warnings are soft quality
// signals and never block a record.
type Result struct {
	Valid             bool     `json:"valid"`
	Issues            []string `json:"issues"`
	Warnings          []string `json:"warnings"`
	CompletenessScore float64  `json:"completeness_score"`
}

// Report aggregates validation over a whole corpus. It is recomputed
// wholesale on each run, never updated incrementally.
type Report struct {
	TotalProducts        int            `json:"total_products"`
	ValidProducts        int            `json:"valid_products"`
	InvalidProducts      int            `json:"invalid_products"`
	ValidityPercentage   float64        `json:"validity_percentage"`
	AverageCompleteness  float64        `json:"average_completeness"`
	TotalIssues          int            `json:"total_issues"`
	TotalWarnings        int            `json:"total_warnings"`
	BrandDistribution    map[string]int `json:"brand_distribution"`
	KnownBrandPercentage float64        `json:"known_brand_percentage"`
	UnknownBrandCount    int            `json:"unknown_brand_count"`
	Results              []Result       `json:"validation_results"`
}

// Product validates a single canonical product.
func Product(p types.CanonicalProduct) Result {
	var issues, warnings []string

	required := []struct {
		name  string
		value string
	}{
		{"name", p.Name},
		{"price", p.Price},
		{"volume_weight", p.VolumeWeight},
	}
	for _, f := range required {
		if f.value == "" {
			issues = append(issues, "Missing required field: "+f.name)
		}
	}

	if p.Name != "" {
		if len(p.Name) < 3 {
			warnings = append(warnings, "Product name is very short")
		}
		if len(p.Name) > 200 {
			warnings = append(warnings, "Product name is very long")
		}
	}
	if p.Price != "" && !priceFormatPattern.MatchString(p.Price) {
		warnings = append(warnings, "Price format may be incorrect")
	}
	if p.VolumeWeight != "" && !volumeFormatPattern.MatchString(p.VolumeWeight) {
		warnings = append(warnings, "Volume/weight format may be incorrect")
	}
	if p.Brand == types.BrandUnknown {
		warnings = append(warnings, "Brand not detected")
	}

	return Result{
		Valid:             len(issues) == 0,
		Issues:            issues,
		Warnings:          warnings,
		CompletenessScore: completeness(p),
	}
}

// completeness is the fraction of the six tracked fields present.
func completeness(p types.CanonicalProduct) float64 {
	fields := []string{p.Name, p.Price, p.VolumeWeight, p.ImageURL, p.Brand, p.Slug}
	present := 0
	for _, f := range fields {
		if f != "" {
			present++
		}
	}
	return float64(present) / float64(len(fields))
}

// Products validates a corpus and returns the aggregate report.
func Products(products []types.CanonicalProduct) *Report {
	results := make([]Result, len(products))
	for i, p := range products {
		results[i] = Product(p)
	}

	total := len(products)
	report := &Report{
		TotalProducts:     total,
		BrandDistribution: make(map[string]int),
		Results:           results,
	}

	var completenessSum float64
	for _, r := range results {
		if r.Valid {
			report.ValidProducts++
		}
		report.TotalIssues += len(r.Issues)
		report.TotalWarnings += len(r.Warnings)
		completenessSum += r.CompletenessScore
	}
	report.InvalidProducts = total - report.ValidProducts

	for _, p := range products {
		b := p.Brand
		if b == "" {
			b = types.BrandUnknown
		}
		report.BrandDistribution[b]++
	}
	report.UnknownBrandCount = report.BrandDistribution[types.BrandUnknown]

	if total > 0 {
		report.ValidityPercentage = float64(report.ValidProducts) / float64(total) * 100
		report.AverageCompleteness = completenessSum / float64(total) * 100
		report.KnownBrandPercentage = float64(total-report.UnknownBrandCount) / float64(total) * 100
	}

	return report
}

// String renders a human-readable quality report.
func (r *Report) String() string {
	var b strings.Builder
	line := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\nData Quality Report\n%s\n", line, line)
	fmt.Fprintf(&b, "Total Products: %d\n", r.TotalProducts)
	fmt.Fprintf(&b, "Valid Products: %d (%.1f%%)\n", r.ValidProducts, r.ValidityPercentage)
	fmt.Fprintf(&b, "Invalid Products: %d\n", r.InvalidProducts)
	fmt.Fprintf(&b, "Average Completeness: %.2f%%\n", r.AverageCompleteness)
	fmt.Fprintf(&b, "Total Issues: %d\n", r.TotalIssues)
	fmt.Fprintf(&b, "Total Warnings: %d\n", r.TotalWarnings)
	fmt.Fprintf(&b, "\nBrand Detection:\n")
	fmt.Fprintf(&b, "  Known Brands: %.1f%%\n", r.KnownBrandPercentage)
	fmt.Fprintf(&b, "  Unknown Brands: %d\n", r.UnknownBrandCount)

	fmt.Fprintf(&b, "\nTop Brands:\n")
	type brandCount struct {
		brand string
		count int
	}
	sorted := make([]brandCount, 0, len(r.BrandDistribution))
	for brand, count := range r.BrandDistribution {
		sorted = append(sorted, brandCount{brand, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].brand < sorted[j].brand
	})
	for i, bc := range sorted {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "  %s: %d\n", bc.brand, bc.count)
	}
	b.WriteString(line)
	return b.String()
}
