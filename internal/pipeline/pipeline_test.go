package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/shelfminer/shelfminer/internal/config"
	"github.com/shelfminer/shelfminer/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type stubFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *stubFetcher) Fetch(_ context.Context, rawURL string) (*types.Response, error) {
	f.fetched = append(f.fetched, rawURL)
	body, ok := f.pages[rawURL]
	if !ok {
		return nil, &types.FetchError{URL: rawURL, Err: fmt.Errorf("unreachable")}
	}
	return &types.Response{URL: rawURL, StatusCode: 200, Body: []byte(body)}, nil
}

func (f *stubFetcher) Close() error { return nil }

// fastConfig trims the politeness delay and corpus bounds so runs
// against a stub finish immediately.
func fastConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scraper.PolitenessDelay = 0
	cfg.Scraper.MinProducts = 5
	cfg.Scraper.MaxProducts = 5
	return cfg
}

func TestRunDisabledSiteUsesSamples(t *testing.T) {
	cfg := fastConfig()
	f := &stubFetcher{}
	p := New(cfg, f, testLogger)

	// amazon ships disabled in the default profiles.
	res, err := p.Run(context.Background(), Options{SiteKey: "amazon", MaxProducts: 10})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(f.fetched) != 0 {
		t.Errorf("disabled site must not fetch, got %v", f.fetched)
	}
	if res.SiteKey != "amazon" {
		t.Errorf("SiteKey = %q, want %q", res.SiteKey, "amazon")
	}
	if len(res.Products) != 10 {
		t.Fatalf("got %d products, want 10", len(res.Products))
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	if !strings.HasSuffix(res.Raw[0].Name, "#1") {
		t.Errorf("first sample name = %q, want positional #1 suffix", res.Raw[0].Name)
	}
	for i, p := range res.Products {
		if p.Name == "" || p.Price == "" || p.Slug == "" {
			t.Errorf("product %d incomplete: %+v", i, p)
		}
		if p.Brand == types.BrandUnknown {
			t.Errorf("product %d: sample catalog brands must all resolve, got Unknown for %q", i, p.OriginalName)
		}
	}
	if res.Report.TotalProducts != 10 {
		t.Errorf("Report.TotalProducts = %d, want 10", res.Report.TotalProducts)
	}
}

func TestRunUnknownSiteFallsBackToDefault(t *testing.T) {
	cfg := fastConfig()
	f := &stubFetcher{} // every fetch fails
	p := New(cfg, f, testLogger)

	res, err := p.Run(context.Background(), Options{SiteKey: "no-such-site"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.SiteKey != cfg.Scraper.DefaultSite {
		t.Errorf("SiteKey = %q, want default %q", res.SiteKey, cfg.Scraper.DefaultSite)
	}
	// Nothing extractable: the floor is met entirely with samples.
	if len(res.Products) != cfg.Scraper.MinProducts {
		t.Errorf("got %d products, want floor of %d", len(res.Products), cfg.Scraper.MinProducts)
	}
}

func TestRunCustomSiteRequiresURL(t *testing.T) {
	p := New(fastConfig(), &stubFetcher{}, testLogger)

	res, err := p.Run(context.Background(), Options{SiteKey: "custom"})
	if res != nil {
		t.Errorf("Run() result = %+v, want nil", res)
	}
	if !errors.Is(err, types.ErrCustomURLRequired) {
		t.Errorf("Run() error = %v, want ErrCustomURLRequired", err)
	}
	var cerr *types.ConfigError
	if !errors.As(err, &cerr) || cerr.Field != "url" {
		t.Errorf("Run() error = %v, want ConfigError on field %q", err, "url")
	}
}

func TestRunCustomSiteRejectsInvalidURL(t *testing.T) {
	p := New(fastConfig(), &stubFetcher{}, testLogger)

	_, err := p.Run(context.Background(), Options{SiteKey: "custom", CustomURL: "not a url"})
	var cerr *types.ConfigError
	if !errors.As(err, &cerr) {
		t.Errorf("Run() error = %v, want ConfigError", err)
	}
}

func TestRunShortfallTopsUpWithSamples(t *testing.T) {
	cfg := fastConfig()
	cfg.Scraper.DefaultSite = "shop"
	cfg.Scraper.MinProducts = 6
	cfg.Scraper.MaxProducts = 6
	cfg.Sites = []config.SiteProfile{{
		Key:           "shop",
		Name:          "Shop",
		BaseURL:       "http://site.example/",
		CategoryPaths: []string{"/cat"},
		Enabled:       true,
		Selectors:     []config.Selector{{Tag: "div", ClassPattern: "product"}},
	}}

	f := &stubFetcher{pages: map[string]string{
		"http://site.example/": `<html><body><p>storefront</p></body></html>`,
		"http://site.example/cat": `<html><body>
<div class="product-card"><h2>Walkers Cheese Onion 32.5g</h2><span class="price">£1.00</span></div>
<div class="product-card"><h2>Cadbury Dairy Milk 110g</h2><span class="price">£1.40</span></div>
</body></html>`,
	}}
	p := New(cfg, f, testLogger)

	res, err := p.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Raw) != 6 {
		t.Fatalf("got %d raw products, want 6", len(res.Raw))
	}
	if res.Raw[0].Name != "Walkers Cheese Onion 32.5g" || res.Raw[1].Name != "Cadbury Dairy Milk 110g" {
		t.Errorf("extracted products not kept ahead of samples: %+v", res.Raw[:2])
	}
	if !strings.HasSuffix(res.Raw[2].Name, "#1") {
		t.Errorf("top-up sample numbering restarts at #1, got %q", res.Raw[2].Name)
	}
}

func TestProcess(t *testing.T) {
	p := New(fastConfig(), &stubFetcher{}, testLogger)

	got := p.Process([]string{"coca cola zero 330ml Can"})
	if len(got) != 1 {
		t.Fatalf("got %d products, want 1", len(got))
	}
	prod := got[0]
	if prod.OriginalName != "coca cola zero 330ml Can" {
		t.Errorf("OriginalName = %q, want input preserved", prod.OriginalName)
	}
	if prod.Name != "Coca Cola Zero 330Ml" {
		t.Errorf("Name = %q, want %q", prod.Name, "Coca Cola Zero 330Ml")
	}
	if prod.Brand != "Coca Cola" {
		t.Errorf("Brand = %q, want %q", prod.Brand, "Coca Cola")
	}
	if prod.Slug != "coca-cola-zero-330ml" {
		t.Errorf("Slug = %q, want %q", prod.Slug, "coca-cola-zero-330ml")
	}
}
