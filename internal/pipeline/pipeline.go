// Package pipeline wires discovery, crawling, sample generation,
// normalization, brand detection, and validation into one run.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/shelfminer/shelfminer/internal/brand"
	"github.com/shelfminer/shelfminer/internal/config"
	"github.com/shelfminer/shelfminer/internal/crawler"
	"github.com/shelfminer/shelfminer/internal/discovery"
	"github.com/shelfminer/shelfminer/internal/extractor"
	"github.com/shelfminer/shelfminer/internal/fetcher"
	"github.com/shelfminer/shelfminer/internal/normalize"
	"github.com/shelfminer/shelfminer/internal/types"
	"github.com/shelfminer/shelfminer/internal/validate"
)

// Options selects what one run scrapes.
type Options struct {
	// SiteKey selects the site profile. Empty or unknown keys degrade
	// to the configured default site.
	SiteKey string

	// CustomURL is the scrape target when SiteKey is "custom";
	// required in that case, ignored otherwise.
	CustomURL string

	// MaxProducts caps the run's output. Zero or negative falls back
	// to the configured default.
	MaxProducts int
}

// Result is everything one run produced. Each stage is derived from
// the previous one by value; no stage aliases another's records.
type Result struct {
	RunID     string
	SiteKey   string
	SourceURL string
	Raw       []types.RawProduct
	Cleaned   []types.CanonicalProduct
	Products  []types.CanonicalProduct
	Report    *validate.Report
}

// Pipeline runs the full scrape-normalize-validate flow.
type Pipeline struct {
	cfg        *config.Config
	discoverer *discovery.Discoverer
	crawler    *crawler.Crawler
	cleaner    *normalize.Cleaner
	detector   *brand.Detector
	logger     *slog.Logger
}

// New assembles a Pipeline around the given fetcher.
func New(cfg *config.Config, f fetcher.Fetcher, logger *slog.Logger) *Pipeline {
	ex := extractor.New(f, &cfg.Scraper, logger)

	rules := normalize.DefaultRules()
	if len(cfg.Cleaning.Descriptors) > 0 {
		rules.Descriptors = cfg.Cleaning.Descriptors
	}
	if len(cfg.Cleaning.PricePrefixes) > 0 {
		rules.PricePrefixes = cfg.Cleaning.PricePrefixes
	}

	return &Pipeline{
		cfg:        cfg,
		discoverer: discovery.New(f, &cfg.Scraper, logger),
		crawler:    crawler.New(f, ex, &cfg.Scraper, logger),
		cleaner:    normalize.NewCleaner(rules),
		detector:   brand.NewDetector(cfg.Brands),
		logger:     logger.With("component", "pipeline"),
	}
}

// Run executes one full scrape. Site selection degrades per config: an
// unknown site key falls back to the default site, while a missing
// custom URL is a hard rejection. A disabled site and an extraction
// shortfall both degrade to sample data rather than failing.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	siteKey := opts.SiteKey
	if siteKey == "" {
		siteKey = p.cfg.Scraper.DefaultSite
	}
	profile, ok := p.cfg.Site(siteKey)
	if !ok {
		p.logger.Warn("unknown site key, using default", "site", siteKey, "default", p.cfg.Scraper.DefaultSite)
		siteKey = p.cfg.Scraper.DefaultSite
		profile, _ = p.cfg.Site(siteKey)
	}

	maxProducts := opts.MaxProducts
	if maxProducts <= 0 {
		maxProducts = p.cfg.Scraper.MaxProducts
	}

	overrideURL := ""
	if siteKey == "custom" {
		if opts.CustomURL == "" {
			return nil, &types.ConfigError{Field: "url", Err: types.ErrCustomURLRequired}
		}
		if err := config.ValidateURL(opts.CustomURL); err != nil {
			return nil, &types.ConfigError{Field: "url", Err: err}
		}
		profile.BaseURL = opts.CustomURL
		if !strings.HasSuffix(profile.BaseURL, "/") {
			profile.BaseURL += "/"
		}
		overrideURL = opts.CustomURL
	}

	var raw []types.RawProduct
	if !profile.Enabled {
		p.logger.Warn("site is disabled, using sample data", "site", siteKey)
		raw = extractor.GenerateSamples(maxProducts)
	} else {
		p.logger.Info("scraping site", "site", profile.Name, "url", profile.BaseURL)
		locations := p.discoverer.Discover(ctx, profile, overrideURL)
		p.logger.Info("locations to crawl", "count", len(locations))

		raw = p.crawler.Crawl(ctx, locations, profile, profile.BaseURL, maxProducts)

		// Shortfall tops up with samples; extracted items are kept.
		if len(raw) < p.cfg.Scraper.MinProducts {
			p.logger.Info("extraction shortfall, generating samples",
				"extracted", len(raw), "floor", p.cfg.Scraper.MinProducts)
			raw = append(raw, extractor.GenerateSamples(p.cfg.Scraper.MinProducts-len(raw))...)
		}
	}

	if len(raw) > maxProducts {
		raw = raw[:maxProducts]
	}

	cleaned := p.cleaner.CleanAll(raw)
	final := p.detector.Apply(cleaned)
	report := validate.Products(final)

	result := &Result{
		RunID:     uuid.NewString(),
		SiteKey:   siteKey,
		SourceURL: profile.BaseURL,
		Raw:       raw,
		Cleaned:   cleaned,
		Products:  final,
		Report:    report,
	}
	p.logger.Info("run complete",
		"run_id", result.RunID,
		"site", siteKey,
		"products", len(final),
		"valid", report.ValidProducts,
	)
	return result, nil
}

// Process runs only the normalization and brand stages over
// caller-supplied names, bypassing discovery and extraction.
func (p *Pipeline) Process(names []string) []types.CanonicalProduct {
	raw := make([]types.RawProduct, len(names))
	for i, name := range names {
		raw[i] = types.RawProduct{Name: name}
	}
	return p.detector.Apply(p.cleaner.CleanAll(raw))
}
