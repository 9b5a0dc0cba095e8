// Package extractor turns listing-page markup into raw product
// records using ordered container-selector candidates and per-field
// heuristics that tolerate partial failure.
package extractor

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shelfminer/shelfminer/internal/config"
	"github.com/shelfminer/shelfminer/internal/fetcher"
	"github.com/shelfminer/shelfminer/internal/types"
)

// Name candidates are tried in order; the first match wins.
var nameSelectors = []string{
	"h1", "h2", "h3", "h4",
	".product-name", ".title",
	`[class*="name"]`, `[class*="title"]`,
}

// Price candidates are tried in order; a match is accepted only when
// it contains a currency-optional numeric pattern.
var priceSelectors = []string{
	".price", `[class*="price"]`, `[class*="cost"]`, `span[class*="price"]`,
}

var (
	pricePattern = regexp.MustCompile(`[£$€]?\s*\d+\.?\d*`)

	// Compact unit forms first, spelled-out forms as a looser second pass.
	volumePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+\s*(?:ml|g|kg|l|litre|liter))`),
		regexp.MustCompile(`(?i)(\d+\s*(?:milliliters?|grams?|kilograms?|liters?|litres?))`),
	}
)

// Extractor extracts raw products from fetched pages.
type Extractor struct {
	fetcher fetcher.Fetcher
	cfg     *config.ScraperConfig
	logger  *slog.Logger
}

// New creates an Extractor.
func New(f fetcher.Fetcher, cfg *config.ScraperConfig, logger *slog.Logger) *Extractor {
	return &Extractor{
		fetcher: f,
		cfg:     cfg,
		logger:  logger.With("component", "extractor"),
	}
}

// ExtractPage extracts raw products from one page. Selector candidates
// are tried in declared order and the first candidate matching at
// least one container wins; candidates are never merged, so
// overlapping selectors cannot duplicate a product.
//
// When no candidate matches any container, a generic-link fallback
// fetches probable product pages (capped at limit) and extracts one
// product per page.
func (e *Extractor) ExtractPage(ctx context.Context, resp *types.Response, baseURL string, selectors []config.Selector, limit int) []types.RawProduct {
	doc, err := resp.Document()
	if err != nil {
		e.logger.Warn("page parse failed", "url", resp.URL, "error", err)
		return nil
	}

	pageBase, err := url.Parse(resp.URL)
	if err != nil {
		return nil
	}

	for _, sel := range selectors {
		containers := findContainers(doc, sel)
		if containers == nil || containers.Length() == 0 {
			continue
		}

		var products []types.RawProduct
		containers.Each(func(_ int, container *goquery.Selection) {
			p := extractProduct(container, pageBase)
			// A record without a name carries no identifying value.
			if p.Name != "" {
				products = append(products, p)
			}
		})
		e.logger.Debug("containers matched",
			"url", resp.URL,
			"selector", sel.Tag+"."+sel.ClassPattern,
			"containers", containers.Length(),
			"products", len(products),
		)
		return products
	}

	return e.extractViaLinks(ctx, doc, baseURL, limit)
}

// findContainers returns elements of sel.Tag whose class attribute
// matches sel.ClassPattern case-insensitively. A pattern that fails to
// compile disqualifies only that candidate.
func findContainers(doc *goquery.Document, sel config.Selector) *goquery.Selection {
	re, err := regexp.Compile("(?i)" + sel.ClassPattern)
	if err != nil {
		return nil
	}
	return doc.Find(sel.Tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		return ok && re.MatchString(class)
	})
}

// extractProduct pulls the four raw fields out of one container.
// Fields are extracted independently: a miss yields an empty value,
// never a dropped record.
func extractProduct(container *goquery.Selection, pageBase *url.URL) types.RawProduct {
	return types.RawProduct{
		Name:         extractName(container),
		Price:        extractPrice(container),
		VolumeWeight: extractVolume(container.Text()),
		ImageURL:     extractImage(container, pageBase),
	}
}

func extractName(container *goquery.Selection) string {
	for _, sel := range nameSelectors {
		if elem := container.Find(sel).First(); elem.Length() > 0 {
			if name := strings.TrimSpace(elem.Text()); name != "" {
				return name
			}
		}
	}

	// No heading-like element: the container's own text, truncated to
	// the first line when it is clearly more than a name.
	name := strings.TrimSpace(container.Text())
	if len(name) > 100 {
		name = strings.TrimSpace(strings.SplitN(name, "\n", 2)[0])
	}
	return name
}

func extractPrice(container *goquery.Selection) string {
	for _, sel := range priceSelectors {
		elem := container.Find(sel).First()
		if elem.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(elem.Text())
		if pricePattern.MatchString(text) {
			return text
		}
	}
	return ""
}

func extractVolume(text string) string {
	for _, re := range volumePatterns {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func extractImage(container *goquery.Selection, pageBase *url.URL) string {
	img := container.Find("img").First()
	if img.Length() == 0 {
		return ""
	}

	src, ok := img.Attr("src")
	if !ok || src == "" {
		// Lazy-loaded images keep the real source in a data attribute.
		for _, attr := range []string{"data-src", "data-lazy-src"} {
			if v, ok := img.Attr(attr); ok && v != "" {
				src = v
				break
			}
		}
	}
	if src == "" {
		return ""
	}

	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return pageBase.ResolveReference(ref).String()
}

// extractViaLinks is the generic fallback for pages where no container
// selector matched: follow same-origin links whose href looks like a
// product page and extract one product from each.
func (e *Extractor) extractViaLinks(ctx context.Context, doc *goquery.Document, baseURL string, limit int) []types.RawProduct {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var products []types.RawProduct
	seen := make(map[string]bool)

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if limit > 0 && len(products) >= limit {
			return false
		}
		href, ok := sel.Attr("href")
		if !ok || !containsAny(strings.ToLower(href), e.cfg.ProductLinkKeywords) {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != base.Scheme || resolved.Host != base.Host {
			return true
		}
		target := resolved.String()
		if seen[target] {
			return true
		}
		seen[target] = true

		p, err := e.ExtractSingle(ctx, target)
		if err != nil {
			e.logger.Debug("product page skipped", "url", target, "error", err)
			return true
		}
		if p.Name != "" {
			products = append(products, *p)
		}
		return true
	})

	return products
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
