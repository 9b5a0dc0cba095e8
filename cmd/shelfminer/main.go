package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shelfminer/shelfminer/internal/api"
	"github.com/shelfminer/shelfminer/internal/config"
	"github.com/shelfminer/shelfminer/internal/fetcher"
	"github.com/shelfminer/shelfminer/internal/pipeline"
	"github.com/shelfminer/shelfminer/internal/storage"
)

var (
	cfgFile     string
	verbose     bool
	siteKey     string
	customURL   string
	maxProducts int
	dataDir     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shelfminer",
		Short: "shelfminer — product listing scraper and normalizer",
		Long: `shelfminer ingests product listings from e-commerce-style pages and
turns loosely structured text into normalized product records: cleaned
name, isolated price, standardized units, multipack descriptor, brand,
and a URL-safe slug.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(sitesCmd())
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape a configured site and write canonical products",
		RunE:  runScrape,
	}

	cmd.Flags().StringVarP(&siteKey, "site", "s", "", "site key from configuration (default: configured default site)")
	cmd.Flags().StringVarP(&customURL, "url", "u", "", "custom URL to scrape (requires --site custom)")
	cmd.Flags().IntVarP(&maxProducts, "max", "m", 0, "maximum products to scrape (0 = config default)")
	cmd.Flags().StringVarP(&dataDir, "output", "o", "", "output directory for JSON artifacts")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}

	httpFetcher, err := fetcher.NewHTTPFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer httpFetcher.Close()

	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	result, err := pipeline.New(cfg, httpFetcher, logger).Run(ctx, pipeline.Options{
		SiteKey:     siteKey,
		CustomURL:   customURL,
		MaxProducts: maxProducts,
	})
	if err != nil {
		return err
	}

	if err := store.Store(&storage.Artifacts{
		RunID:   result.RunID,
		Raw:     result.Raw,
		Cleaned: result.Cleaned,
		Final:   result.Products,
		Report:  result.Report,
	}); err != nil {
		return fmt.Errorf("store artifacts: %w", err)
	}

	logger.Info("scrape complete",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"site", result.SiteKey,
		"products", len(result.Products),
	)
	fmt.Println(result.Report.String())
	return nil
}

// sitesCmd creates the "sites" subcommand.
func sitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List configured, enabled site profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			for _, site := range cfg.EnabledSites() {
				fmt.Printf("%-16s %-22s %s\n", site.Key, site.Name, site.BaseURL)
			}
			return nil
		},
	}
}

// processCmd creates the "process" subcommand: normalization and brand
// detection over names given as arguments, no scraping.
func processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process [name]...",
		Short: "Normalize and brand-detect product names without scraping",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			httpFetcher, err := fetcher.NewHTTPFetcher(cfg, logger)
			if err != nil {
				return err
			}
			defer httpFetcher.Close()

			for _, p := range pipeline.New(cfg, httpFetcher, logger).Process(args) {
				fmt.Printf("%-40s -> %s [%s] slug=%s\n", p.OriginalName, p.Name, p.Brand, p.Slug)
			}
			return nil
		},
	}
}

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scraper API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.API.Port = port
			}

			httpFetcher, err := fetcher.NewHTTPFetcher(cfg, logger)
			if err != nil {
				return err
			}
			defer httpFetcher.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(cfg, pipeline.New(cfg, httpFetcher, logger), logger)
			return srv.Start(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (0 = config default)")
	return cmd
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shelfminer %s\n", config.Version)
		},
	}
}

func newStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case "mongo":
		return storage.NewMongoStorage(&cfg.Storage, logger)
	default:
		return storage.NewFileStorage(&cfg.Storage, logger)
	}
}

// setupLogger creates a structured logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}
