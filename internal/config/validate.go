package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shelfminer/shelfminer/internal/types"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Scraper.MaxProducts < 0 {
		return fmt.Errorf("scraper.max_products must be >= 0, got %d", cfg.Scraper.MaxProducts)
	}
	if cfg.Scraper.MinProducts < 0 {
		return fmt.Errorf("scraper.min_products must be >= 0, got %d", cfg.Scraper.MinProducts)
	}
	if cfg.Scraper.MaxCategories < 1 {
		return fmt.Errorf("scraper.max_categories must be >= 1, got %d", cfg.Scraper.MaxCategories)
	}
	if cfg.Scraper.MaxPages < 1 {
		return fmt.Errorf("scraper.max_pages must be >= 1, got %d", cfg.Scraper.MaxPages)
	}
	if cfg.Scraper.RequestTimeout <= 0 {
		return fmt.Errorf("scraper.request_timeout must be > 0")
	}
	if cfg.Scraper.PolitenessDelay < 0 {
		return fmt.Errorf("scraper.politeness_delay must be >= 0")
	}
	if _, ok := cfg.Site(cfg.Scraper.DefaultSite); !ok {
		return fmt.Errorf("scraper.default_site %q is not a configured site", cfg.Scraper.DefaultSite)
	}

	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	seen := make(map[string]bool, len(cfg.Sites))
	for i, site := range cfg.Sites {
		if site.Key == "" {
			return fmt.Errorf("sites[%d]: key must not be empty", i)
		}
		if seen[site.Key] {
			return fmt.Errorf("sites[%d]: duplicate key %q", i, site.Key)
		}
		seen[site.Key] = true
		// The custom profile has no base URL until a request supplies one.
		if site.BaseURL == "" && site.Key != "custom" {
			return fmt.Errorf("sites[%d] (%s): base_url must not be empty", i, site.Key)
		}
		if site.BaseURL != "" {
			if _, err := url.Parse(site.BaseURL); err != nil {
				return fmt.Errorf("sites[%d] (%s): invalid base_url: %w", i, site.Key, err)
			}
		}
		if len(site.Selectors) == 0 {
			return fmt.Errorf("sites[%d] (%s): at least one selector is required", i, site.Key)
		}
		for j, sel := range site.Selectors {
			if sel.Tag == "" || sel.ClassPattern == "" {
				return fmt.Errorf("sites[%d] (%s): selector %d must set tag and class_pattern", i, site.Key, j)
			}
		}
	}

	if len(cfg.Brands) == 0 {
		return fmt.Errorf("brands vocabulary must not be empty")
	}
	for i, b := range cfg.Brands {
		if strings.TrimSpace(b) == "" {
			return fmt.Errorf("brands[%d]: empty entry", i)
		}
	}

	if cfg.Storage.Type != "json" && cfg.Storage.Type != "mongo" {
		return fmt.Errorf("storage.type %q is not supported (valid: json, mongo)", cfg.Storage.Type)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.API.Port < 1 || cfg.API.Port > 65535 {
		return fmt.Errorf("api.port must be 1-65535, got %d", cfg.API.Port)
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a scrape target.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", types.ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", types.ErrInvalidURL)
	}
	return nil
}
