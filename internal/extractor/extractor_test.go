package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/shelfminer/shelfminer/internal/config"
	"github.com/shelfminer/shelfminer/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// stubFetcher serves canned pages by URL.
type stubFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *stubFetcher) Fetch(_ context.Context, rawURL string) (*types.Response, error) {
	f.fetched = append(f.fetched, rawURL)
	body, ok := f.pages[rawURL]
	if !ok {
		return nil, &types.FetchError{URL: rawURL, StatusCode: 404, Err: fmt.Errorf("not found")}
	}
	return &types.Response{URL: rawURL, StatusCode: 200, Body: []byte(body)}, nil
}

func (f *stubFetcher) Close() error { return nil }

func newTestExtractor(pages map[string]string) (*Extractor, *stubFetcher) {
	f := &stubFetcher{pages: pages}
	cfg := config.DefaultConfig()
	return New(f, &cfg.Scraper, testLogger), f
}

func makeResp(url, body string) *types.Response {
	return &types.Response{URL: url, StatusCode: 200, Body: []byte(body)}
}

const listingHTML = `<!DOCTYPE html>
<html><body>
<div class="product-card">
    <h2>Coca Cola Original 330ml</h2>
    <span class="price">£0.75</span>
    <img data-src="/images/cc.png">
</div>
<div class="product-card">
    <h3>Pepsi Max</h3>
    <span class="price">from</span>
    <span class="cost">£1.00</span>
    <img src="https://cdn.example.com/pepsi.png">
</div>
<div class="product-card">
    <img src="/images/mystery.png">
</div>
<article class="product">
    <h2>Should Not Appear</h2>
</article>
</body></html>`

var testSelectors = []config.Selector{
	{Tag: "div", ClassPattern: "product-card"},
	{Tag: "article", ClassPattern: "product"},
}

func TestExtractPageFirstSelectorWins(t *testing.T) {
	ex, _ := newTestExtractor(nil)
	resp := makeResp("https://shop.example/drinks", listingHTML)

	products := ex.ExtractPage(context.Background(), resp, "https://shop.example/", testSelectors, 100)

	// Two named products from div.product-card; the article.product
	// container must not be merged in, and the card with no text at
	// all yields no name and is dropped.
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d: %+v", len(products), products)
	}
	for _, p := range products {
		if p.Name == "Should Not Appear" {
			t.Fatal("second selector candidate was merged in")
		}
	}
}

func TestExtractPageFields(t *testing.T) {
	ex, _ := newTestExtractor(nil)
	resp := makeResp("https://shop.example/drinks", listingHTML)

	products := ex.ExtractPage(context.Background(), resp, "https://shop.example/", testSelectors, 100)
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	cc := products[0]
	if cc.Name != "Coca Cola Original 330ml" {
		t.Errorf("Name = %q", cc.Name)
	}
	if cc.Price != "£0.75" {
		t.Errorf("Price = %q, want £0.75", cc.Price)
	}
	if cc.VolumeWeight != "330ml" {
		t.Errorf("VolumeWeight = %q, want 330ml", cc.VolumeWeight)
	}
	// Lazy-load attribute, resolved against the page URL.
	if cc.ImageURL != "https://shop.example/images/cc.png" {
		t.Errorf("ImageURL = %q", cc.ImageURL)
	}

	pepsi := products[1]
	// ".price" text has no numeric pattern, so the next candidate
	// selector supplies the price.
	if pepsi.Price != "£1.00" {
		t.Errorf("Price = %q, want £1.00", pepsi.Price)
	}
	if pepsi.VolumeWeight != "" {
		t.Errorf("VolumeWeight = %q, want empty", pepsi.VolumeWeight)
	}
	if pepsi.ImageURL != "https://cdn.example.com/pepsi.png" {
		t.Errorf("ImageURL = %q", pepsi.ImageURL)
	}
}

func TestExtractNameFallsBackToContainerText(t *testing.T) {
	ex, _ := newTestExtractor(nil)

	html := `<html><body><div class="product">Tango Orange 330ml</div></body></html>`
	resp := makeResp("https://shop.example/", html)
	sel := []config.Selector{{Tag: "div", ClassPattern: "product"}}

	products := ex.ExtractPage(context.Background(), resp, "https://shop.example/", sel, 10)
	if len(products) != 1 || products[0].Name != "Tango Orange 330ml" {
		t.Fatalf("got %+v, want container text name", products)
	}
}

func TestExtractNameTruncatesLongText(t *testing.T) {
	ex, _ := newTestExtractor(nil)

	long := "Ribena Blackcurrant 500ml\n" + strings.Repeat("lorem ipsum filler text ", 10)
	html := `<html><body><div class="product">` + long + `</div></body></html>`
	resp := makeResp("https://shop.example/", html)
	sel := []config.Selector{{Tag: "div", ClassPattern: "product"}}

	products := ex.ExtractPage(context.Background(), resp, "https://shop.example/", sel, 10)
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].Name != "Ribena Blackcurrant 500ml" {
		t.Errorf("Name = %q, want text before first line break", products[0].Name)
	}
}

func TestExtractPageLinkFallback(t *testing.T) {
	productPage := `<html><body>
<h1>Evian Still Water 1l</h1>
<div class="product-price">£1.20</div>
<img src="/img/evian.png">
</body></html>`

	listing := `<html><body>
<a href="/product/evian">Evian</a>
<a href="https://elsewhere.example/product/other">Off-site</a>
<a href="/about">About us</a>
</body></html>`

	ex, f := newTestExtractor(map[string]string{
		"https://shop.example/product/evian": productPage,
	})
	resp := makeResp("https://shop.example/", listing)

	products := ex.ExtractPage(context.Background(), resp, "https://shop.example/", testSelectors, 10)
	if len(products) != 1 {
		t.Fatalf("expected 1 product via link fallback, got %d", len(products))
	}

	p := products[0]
	if p.Name != "Evian Still Water 1l" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Price != "£1.20" {
		t.Errorf("Price = %q", p.Price)
	}
	if p.VolumeWeight != "1l" {
		t.Errorf("VolumeWeight = %q, want 1l", p.VolumeWeight)
	}
	if p.ImageURL != "https://shop.example/img/evian.png" {
		t.Errorf("ImageURL = %q", p.ImageURL)
	}

	// The off-site product link must not be fetched.
	for _, u := range f.fetched {
		if strings.Contains(u, "elsewhere.example") {
			t.Errorf("off-origin link fetched: %s", u)
		}
	}
}

func TestExtractPageLinkFallbackCapped(t *testing.T) {
	pages := map[string]string{}
	var links strings.Builder
	for i := 0; i < 10; i++ {
		u := fmt.Sprintf("https://shop.example/product/%d", i)
		pages[u] = fmt.Sprintf("<html><body><h1>Drink %d</h1></body></html>", i)
		fmt.Fprintf(&links, `<a href="/product/%d">Drink %d</a>`, i, i)
	}

	ex, f := newTestExtractor(pages)
	resp := makeResp("https://shop.example/", "<html><body>"+links.String()+"</body></html>")

	products := ex.ExtractPage(context.Background(), resp, "https://shop.example/", testSelectors, 3)
	if len(products) != 3 {
		t.Fatalf("expected fallback capped at 3, got %d", len(products))
	}
	if len(f.fetched) != 3 {
		t.Errorf("expected 3 page fetches, got %d", len(f.fetched))
	}
}
