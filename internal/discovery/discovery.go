// Package discovery locates candidate listing pages for a site
// profile without any knowledge of the site's markup schema.
package discovery

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shelfminer/shelfminer/internal/config"
	"github.com/shelfminer/shelfminer/internal/fetcher"
)

// Discoverer finds category/listing URLs from a site's entry page.
type Discoverer struct {
	fetcher fetcher.Fetcher
	cfg     *config.ScraperConfig
	logger  *slog.Logger
}

// New creates a Discoverer.
func New(f fetcher.Fetcher, cfg *config.ScraperConfig, logger *slog.Logger) *Discoverer {
	return &Discoverer{
		fetcher: f,
		cfg:     cfg,
		logger:  logger.With("component", "discovery"),
	}
}

// Discover returns an ordered, de-duplicated list of candidate listing
// URLs, at most cfg.MaxCategories long. It never returns an error:
// every failure degrades to a usable single-URL fallback.
//
// An explicit override that differs from the profile's base URL
// short-circuits all heuristics.
func (d *Discoverer) Discover(ctx context.Context, profile config.SiteProfile, overrideURL string) []string {
	baseURL := profile.BaseURL
	if overrideURL != "" && overrideURL != baseURL {
		d.logger.Info("using provided URL directly", "url", overrideURL)
		return []string{overrideURL}
	}

	resp, err := d.fetcher.Fetch(ctx, baseURL)
	if err != nil {
		d.logger.Warn("entry page fetch failed, falling back", "url", baseURL, "error", err)
		if overrideURL != "" {
			return []string{overrideURL}
		}
		return []string{baseURL}
	}

	doc, err := resp.Document()
	if err != nil {
		d.logger.Warn("entry page parse failed, falling back", "url", baseURL, "error", err)
		return []string{baseURL}
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return []string{baseURL}
	}

	seen := make(map[string]bool)
	var candidates []string
	add := func(u string) {
		if !seen[u] {
			seen[u] = true
			candidates = append(candidates, u)
		}
	}

	// Links whose visible text mentions a category-like keyword and
	// that stay on the site's origin.
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if !containsAny(text, d.cfg.CategoryKeywords) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if !sameOrigin(base, resolved) {
			return
		}
		add(resolved.String())
	})

	// Configured category-path hints, resolved against the base URL.
	for _, path := range profile.CategoryPaths {
		ref, err := url.Parse(path)
		if err != nil {
			continue
		}
		add(base.ResolveReference(ref).String())
	}

	if len(candidates) == 0 {
		d.logger.Info("no categories found, scraping entry page", "url", baseURL)
		return []string{baseURL}
	}

	if len(candidates) > d.cfg.MaxCategories {
		candidates = candidates[:d.cfg.MaxCategories]
	}

	d.logger.Info("categories discovered", "count", len(candidates))
	return candidates
}

// sameOrigin reports whether two URLs share scheme and host.
func sameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
