// Package crawler walks candidate listing locations with bounded
// pagination, collecting raw products until a limit is reached.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shelfminer/shelfminer/internal/config"
	"github.com/shelfminer/shelfminer/internal/extractor"
	"github.com/shelfminer/shelfminer/internal/fetcher"
	"github.com/shelfminer/shelfminer/internal/types"
)

// Crawler visits listing pages sequentially. There is no fan-out:
// each fetch completes before the next begins, with a politeness
// delay between successive page fetches.
type Crawler struct {
	fetcher   fetcher.Fetcher
	extractor *extractor.Extractor
	cfg       *config.ScraperConfig
	logger    *slog.Logger
}

// New creates a Crawler.
func New(f fetcher.Fetcher, ex *extractor.Extractor, cfg *config.ScraperConfig, logger *slog.Logger) *Crawler {
	return &Crawler{
		fetcher:   f,
		extractor: ex,
		cfg:       cfg,
		logger:    logger.With("component", "crawler"),
	}
}

// Crawl iterates the candidate locations in order. Per location it
// fetches the page itself and then paginated variants ?page=2 up to
// ?page=MaxPages, stopping the location as soon as a page yields zero
// new items (plateau). A plateaued location is never revisited. If
// every location is exhausted below limit, a final extraction pass
// runs against the base URL itself.
func (c *Crawler) Crawl(ctx context.Context, locations []string, profile config.SiteProfile, baseURL string, limit int) []types.RawProduct {
	if limit <= 0 {
		return nil
	}

	var products []types.RawProduct

	for _, location := range locations {
		if len(products) >= limit {
			break
		}
		c.logger.Info("crawling location", "url", location)

		for page := 1; page <= c.cfg.MaxPages; page++ {
			if len(products) >= limit {
				break
			}

			pageURL := location
			if page > 1 {
				pageURL = paginate(location, page)
			}

			added := c.scrapePage(ctx, pageURL, profile, baseURL, limit-len(products))
			if len(added) == 0 {
				// Plateau: this location has stopped producing.
				break
			}
			products = append(products, added...)

			select {
			case <-ctx.Done():
				return truncate(products, limit)
			case <-time.After(c.cfg.PolitenessDelay):
			}
		}
	}

	// Shortfall: one last pass directly against the homepage.
	if len(products) < limit {
		c.logger.Info("scraping from homepage", "url", baseURL)
		added := c.scrapePage(ctx, baseURL, profile, baseURL, limit-len(products))
		products = append(products, added...)
	}

	return truncate(products, limit)
}

// scrapePage fetches and extracts one page. A failed fetch degrades to
// an empty page; it never aborts the crawl.
func (c *Crawler) scrapePage(ctx context.Context, pageURL string, profile config.SiteProfile, baseURL string, remaining int) []types.RawProduct {
	resp, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		c.logger.Warn("page fetch failed", "url", pageURL, "error", err)
		return nil
	}

	products := c.extractor.ExtractPage(ctx, resp, baseURL, profile.Selectors, remaining)
	c.logger.Debug("page scraped", "url", pageURL, "products", len(products))
	return products
}

// paginate appends a page query parameter, with & when the location
// already carries a query string.
func paginate(location string, page int) string {
	if strings.Contains(location, "?") {
		return fmt.Sprintf("%s&page=%d", location, page)
	}
	return fmt.Sprintf("%s?page=%d", location, page)
}

func truncate(products []types.RawProduct, limit int) []types.RawProduct {
	if len(products) > limit {
		return products[:limit]
	}
	return products
}
