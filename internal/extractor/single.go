package extractor

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/shelfminer/shelfminer/internal/types"
)

// ExtractSingle fetches one probable product page and extracts a
// single product with a reduced heuristic: first heading, first
// price-like element, first quantity match in the full page text,
// first image.
func (e *Extractor) ExtractSingle(ctx context.Context, pageURL string) (*types.RawProduct, error) {
	resp, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &types.ExtractError{URL: pageURL, Err: err}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &types.ExtractError{URL: pageURL, Err: err}
	}

	p := &types.RawProduct{}

	if node := htmlquery.FindOne(doc, "//h1"); node != nil {
		p.Name = strings.TrimSpace(htmlquery.InnerText(node))
	}
	if p.Name == "" {
		if node := htmlquery.FindOne(doc, `//*[contains(@class,"name") or contains(@class,"title")]`); node != nil {
			p.Name = strings.TrimSpace(htmlquery.InnerText(node))
		}
	}

	if node := htmlquery.FindOne(doc, `//*[contains(@class,"price")]`); node != nil {
		text := strings.TrimSpace(htmlquery.InnerText(node))
		if pricePattern.MatchString(text) {
			p.Price = text
		}
	}

	p.VolumeWeight = extractVolume(htmlquery.InnerText(doc))

	if node := htmlquery.FindOne(doc, "//img"); node != nil {
		src := htmlquery.SelectAttr(node, "src")
		if src == "" {
			src = htmlquery.SelectAttr(node, "data-src")
		}
		if src != "" {
			if ref, err := url.Parse(src); err == nil {
				p.ImageURL = base.ResolveReference(ref).String()
			}
		}
	}

	return p, nil
}
