package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for shelfminer.
type Config struct {
	Scraper  ScraperConfig  `mapstructure:"scraper"  yaml:"scraper"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher"`
	Cleaning CleaningConfig `mapstructure:"cleaning" yaml:"cleaning"`
	Brands   []string       `mapstructure:"brands"   yaml:"brands"`
	Sites    []SiteProfile  `mapstructure:"sites"    yaml:"sites"`
	Storage  StorageConfig  `mapstructure:"storage"  yaml:"storage"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// SiteProfile describes one target site: where to start, which paths
// are likely listing pages, and which containers wrap one product.
// Immutable once loaded. Selector order is a contract: the extractor
// tries selectors in declared order and the first non-empty match wins.
type SiteProfile struct {
	Key           string     `mapstructure:"key"            yaml:"key"`
	Name          string     `mapstructure:"name"           yaml:"name"`
	BaseURL       string     `mapstructure:"base_url"       yaml:"base_url"`
	CategoryPaths []string   `mapstructure:"category_paths" yaml:"category_paths"`
	Selectors     []Selector `mapstructure:"selectors"      yaml:"selectors"`
	Enabled       bool       `mapstructure:"enabled"        yaml:"enabled"`
}

// Selector identifies candidate product containers: elements of Tag
// whose class attribute matches ClassPattern (case-insensitive regex).
type Selector struct {
	Tag          string `mapstructure:"tag"           yaml:"tag"`
	ClassPattern string `mapstructure:"class_pattern" yaml:"class_pattern"`
}

// ScraperConfig controls discovery and crawling.
type ScraperConfig struct {
	DefaultSite     string        `mapstructure:"default_site"     yaml:"default_site"`
	MaxProducts     int           `mapstructure:"max_products"     yaml:"max_products"`
	MinProducts     int           `mapstructure:"min_products"     yaml:"min_products"`
	MaxCategories   int           `mapstructure:"max_categories"   yaml:"max_categories"`
	MaxPages        int           `mapstructure:"max_pages"        yaml:"max_pages"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  yaml:"request_timeout"`
	PolitenessDelay time.Duration `mapstructure:"politeness_delay" yaml:"politeness_delay"`

	// CategoryKeywords mark a link as a listing-page candidate when any
	// of them appears in the link's visible text.
	CategoryKeywords []string `mapstructure:"category_keywords" yaml:"category_keywords"`

	// ProductLinkKeywords mark an href as a probable product page in
	// the extractor's generic-link fallback.
	ProductLinkKeywords []string `mapstructure:"product_link_keywords" yaml:"product_link_keywords"`
}

// FetcherConfig controls the HTTP fetcher.
type FetcherConfig struct {
	UserAgent       string        `mapstructure:"user_agent"        yaml:"user_agent"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
}

// CleaningConfig controls name normalization.
type CleaningConfig struct {
	// Descriptors are packaging words stripped from names as
	// whole-word, case-insensitive removals.
	Descriptors []string `mapstructure:"descriptors" yaml:"descriptors"`

	// PricePrefixes are promotional markers stripped from prices, in
	// declared priority order.
	PricePrefixes []string `mapstructure:"price_prefixes" yaml:"price_prefixes"`
}

// StorageConfig controls artifact output.
type StorageConfig struct {
	Type            string `mapstructure:"type"             yaml:"type"` // json, mongo
	DataDir         string `mapstructure:"data_dir"         yaml:"data_dir"`
	RawFile         string `mapstructure:"raw_file"         yaml:"raw_file"`
	CleanedFile     string `mapstructure:"cleaned_file"     yaml:"cleaned_file"`
	FinalFile       string `mapstructure:"final_file"       yaml:"final_file"`
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Port            int           `mapstructure:"port"             yaml:"port"`
	MaxProductsCap  int           `mapstructure:"max_products_cap" yaml:"max_products_cap"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"  yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Site returns the profile for key and whether it exists. Lookup is by
// exact key; iteration order of Sites is the declared order.
func (c *Config) Site(key string) (SiteProfile, bool) {
	for _, s := range c.Sites {
		if s.Key == key {
			return s, true
		}
	}
	return SiteProfile{}, false
}

// EnabledSites returns the enabled profiles in declared order.
func (c *Config) EnabledSites() []SiteProfile {
	out := make([]SiteProfile, 0, len(c.Sites))
	for _, s := range c.Sites {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Scraper: ScraperConfig{
			DefaultSite:     "wegetanystock",
			MaxProducts:     100,
			MinProducts:     50,
			MaxCategories:   3,
			MaxPages:        10,
			RequestTimeout:  10 * time.Second,
			PolitenessDelay: 1 * time.Second,
			CategoryKeywords: []string{
				"drinks", "beverages", "food", "snacks", "confectionery",
				"category", "products", "shop", "catalog", "men", "women",
				"tshirts", "shirts", "clothing", "fashion", "apparel",
				"items", "collection",
			},
			ProductLinkKeywords: []string{"product", "item", "p-"},
		},
		Fetcher: FetcherConfig{
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
		},
		Cleaning: CleaningConfig{
			Descriptors:   []string{"Can", "Bottle", "Bar", "Pack", "Pk", "Pkt", "Packet"},
			PricePrefixes: []string{"PMP", "PM", "RRP"},
		},
		// Entry order is a tie-break: longer/more-specific aliases come
		// before shorter ones, and the first containment match wins.
		Brands: []string{
			"Coca-Cola", "Coca Cola", "Coke",
			"Lucozade",
			"Red Bull",
			"Pepsi",
			"Fanta",
			"Sprite",
			"7UP", "7-Up",
			"Tango",
			"Dr Pepper", "Dr. Pepper",
			"Monster",
			"Rockstar",
			"Relentless",
			"Powerade",
			"Gatorade",
			"Ribena",
			"Robinsons",
			"Innocent",
			"Tropicana",
			"Ocean Spray",
			"Volvic",
			"Evian",
			"Highland Spring",
		},
		Sites: []SiteProfile{
			{
				Key:           "wegetanystock",
				Name:          "We Get Any Stock",
				BaseURL:       "https://www.wegetanystock.com/",
				CategoryPaths: []string{"/category/drinks", "/category/beverages", "/category/food", "/products", "/shop"},
				Selectors: []Selector{
					{Tag: "div", ClassPattern: "product"},
					{Tag: "div", ClassPattern: "product-item"},
					{Tag: "div", ClassPattern: "product-card"},
				},
				Enabled: true,
			},
			{
				Key:           "books_toscrape",
				Name:          "Books to Scrape",
				BaseURL:       "http://books.toscrape.com/",
				CategoryPaths: []string{"/catalogue/category/books_1/index.html"},
				Selectors: []Selector{
					{Tag: "article", ClassPattern: "product_pod"},
					{Tag: "article", ClassPattern: "product"},
				},
				Enabled: true,
			},
			{
				Key:     "quotes_toscrape",
				Name:    "Quotes to Scrape",
				BaseURL: "http://quotes.toscrape.com/",
				Selectors: []Selector{
					{Tag: "div", ClassPattern: "quote"},
				},
				Enabled: true,
			},
			{
				Key:           "scrapethissite",
				Name:          "Scrape This Site",
				BaseURL:       "https://www.scrapethissite.com/",
				CategoryPaths: []string{"/pages/"},
				Selectors: []Selector{
					{Tag: "div", ClassPattern: "page"},
				},
				Enabled: true,
			},
			{
				Key:           "amazon",
				Name:          "Amazon (Example)",
				BaseURL:       "https://www.amazon.co.uk/",
				CategoryPaths: []string{"/s?k=beverages", "/s?k=drinks"},
				Selectors: []Selector{
					{Tag: "div", ClassPattern: "s-result-item"},
				},
				Enabled: false, // requires JavaScript
			},
			{
				Key:     "custom",
				Name:    "Custom URL",
				BaseURL: "", // provided per request
				Selectors: []Selector{
					{Tag: "div", ClassPattern: "product"},
					{Tag: "div", ClassPattern: "product-item"},
					{Tag: "article", ClassPattern: "product"},
				},
				Enabled: true,
			},
		},
		Storage: StorageConfig{
			Type:            "json",
			DataDir:         "./data",
			RawFile:         "products_raw.json",
			CleanedFile:     "products_cleaned.json",
			FinalFile:       "products_final.json",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "shelfminer",
			MongoCollection: "products",
		},
		API: APIConfig{
			Port:            5000,
			MaxProductsCap:  200,
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
