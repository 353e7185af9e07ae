package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-books-catalog/config"
	"github.com/aluiziolira/go-books-catalog/countries"
	"github.com/aluiziolira/go-books-catalog/logging"
	"github.com/aluiziolira/go-books-catalog/pipeline"
	"github.com/aluiziolira/go-books-catalog/scraper"
)

func main() {
	defaults := config.DefaultConfig()
	applyEnv(defaults)

	maxPages := flag.Int("pages", defaults.MaxPages, "Maximum catalogue pages to scrape")
	baseURL := flag.String("base-url", defaults.BaseURL, "Catalogue base URL")
	category := flag.String("category", defaults.CategoryPath, "Category listing path, relative to the base URL")
	delay := flag.Duration("delay", defaults.PageDelay, "Pause between listing pages")
	timeout := flag.Duration("timeout", defaults.Timeout, "Per-request timeout")
	countriesTimeout := flag.Duration("countries-timeout", defaults.CountriesTimeout, "Timeout for reference country requests")
	maxRetries := flag.Int("max-retries", defaults.MaxRetries, "Maximum retry attempts per URL")
	retryBackoff := flag.Duration("retry-backoff", defaults.RetryBackoff, "Initial retry backoff")
	retryBackoffMax := flag.Duration("retry-backoff-max", defaults.RetryBackoffMax, "Maximum retry backoff")
	rawOutput := flag.String("raw-output", defaults.RawOutputFile, "Raw books JSON file")
	output := flag.String("output", defaults.OutputFile, "Enriched books JSON file")
	format := flag.String("format", defaults.OutputFormat, "Enriched output format: json or dual (json plus csv)")
	archiveDir := flag.String("archive-dir", defaults.ArchiveDir, "Directory for product page snapshots (empty disables archival)")
	cacheFile := flag.String("cache-file", defaults.CacheFile, "Country list cache file")
	cacheTTL := flag.Duration("cache-ttl", defaults.CacheTTL, "Country list cache lifetime")
	endpoints := flag.String("country-endpoints", strings.Join(defaults.CountryEndpoints, ","), "Comma separated country endpoints, tried in order")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	metricsAddr := flag.String("metrics-addr", defaults.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")

	flag.Parse()

	logging.Install(logging.New(*verbose))

	cfg := defaults
	cfg.MaxPages = *maxPages
	cfg.BaseURL = *baseURL
	cfg.CategoryPath = *category
	cfg.PageDelay = *delay
	cfg.Timeout = *timeout
	cfg.CountriesTimeout = *countriesTimeout
	cfg.MaxRetries = *maxRetries
	cfg.RetryBackoff = *retryBackoff
	cfg.RetryBackoffMax = *retryBackoffMax
	cfg.RawOutputFile = *rawOutput
	cfg.OutputFile = *output
	cfg.OutputFormat = strings.ToLower(*format)
	cfg.ArchiveDir = *archiveDir
	cfg.CacheFile = *cacheFile
	cfg.CacheTTL = *cacheTTL
	cfg.CountryEndpoints = config.SplitList(*endpoints)
	cfg.Verbose = *verbose
	cfg.MetricsAddr = *metricsAddr

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := scraper.NewMetrics()
	metricsServer := startMetricsServer(cfg.MetricsAddr, metrics)

	p, err := buildPipeline(cfg, metrics)
	if err != nil {
		slog.Error("initialising pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting scrape",
		slog.String("base_url", cfg.BaseURL),
		slog.String("category", cfg.CategoryPath),
		slog.Int("pages", cfg.MaxPages),
	)

	summary, err := p.Run(ctx)
	stopMetricsServer(metricsServer)
	if err != nil {
		slog.Error("scrape failed", slog.Any("error", err))
		os.Exit(1)
	}

	printSummary(summary)
}

func buildPipeline(cfg *config.Config, metrics *scraper.Metrics) (*pipeline.Pipeline, error) {
	fetcher := scraper.NewFetcher(scraper.FetcherConfigFrom(cfg), metrics)

	var archiver scraper.Archiver
	if cfg.ArchiveDir != "" {
		fileArchiver, err := scraper.NewFileArchiver(fetcher, cfg.ArchiveDir)
		if err != nil {
			return nil, err
		}
		archiver = fileArchiver
	}
	s := scraper.NewScraper(fetcher, archiver, cfg.PageDelay, metrics)

	countryCfg := scraper.FetcherConfigFrom(cfg)
	countryCfg.Timeout = cfg.CountriesTimeout
	countryCfg.MaxRetries = 0
	countryFetcher := scraper.NewFetcher(countryCfg, metrics)

	provider := countries.NewProvider(
		countries.NewFileCache(cfg.CacheFile, cfg.CacheTTL),
		countries.EndpointSources(countryFetcher, cfg.CountryEndpoints)...,
	)

	return pipeline.New(cfg, provider, s, nil), nil
}

// applyEnv overlays SCRAPER_* environment variables on cfg. Flags override both.
func applyEnv(cfg *config.Config) {
	if value, ok, err := config.EnvInt("SCRAPER_PAGES"); err != nil {
		exitf("invalid SCRAPER_PAGES: %v", err)
	} else if ok {
		cfg.MaxPages = value
	}
	if value, ok := config.EnvString("SCRAPER_CATEGORY"); ok {
		cfg.CategoryPath = value
	}
	if value, ok := config.EnvString("SCRAPER_OUTPUT"); ok {
		cfg.OutputFile = value
	}
	if value, ok := config.EnvString("SCRAPER_RAW_OUTPUT"); ok {
		cfg.RawOutputFile = value
	}
	if value, ok := config.EnvString("SCRAPER_ARCHIVE_DIR"); ok {
		cfg.ArchiveDir = value
	}
	if value, ok := config.EnvString("SCRAPER_CACHE_FILE"); ok {
		cfg.CacheFile = value
	}
	if value, ok, err := config.EnvDuration("SCRAPER_CACHE_TTL"); err != nil {
		exitf("invalid SCRAPER_CACHE_TTL: %v", err)
	} else if ok {
		cfg.CacheTTL = value
	}
	if value, ok := config.EnvList("SCRAPER_COUNTRY_ENDPOINTS"); ok {
		cfg.CountryEndpoints = value
	}
	if value, ok := config.EnvString("SCRAPER_METRICS_ADDR"); ok {
		cfg.MetricsAddr = value
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func startMetricsServer(addr string, metrics *scraper.Metrics) *http.Server {
	if addr == "" || metrics == nil {
		return nil
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", addr))
	return server
}

func stopMetricsServer(server *http.Server) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("error", err))
	}
}

func printSummary(summary *pipeline.Summary) {
	result := summary.Result
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")
	fmt.Printf("  Pages:            %d\n", result.PageCount)
	fmt.Printf("  Books:            %d\n", result.TotalCount)
	fmt.Printf("  Invalid entries:  %d\n", result.InvalidCount)
	fmt.Printf("  Archived:         %d\n", result.ArchivedCount)
	fmt.Printf("  Archive failures: %d\n", result.ArchiveFailures)
	if len(result.ErrorsByType) > 0 {
		kinds := make([]string, 0, len(result.ErrorsByType))
		for kind, count := range result.ErrorsByType {
			kinds = append(kinds, fmt.Sprintf("%s=%d", kind, count))
		}
		sort.Strings(kinds)
		fmt.Printf("  Error types:      %s\n", strings.Join(kinds, " "))
	}
	fmt.Printf("  Countries:        %d (%s)\n", summary.CountryCount, summary.CountryOrigin)
	fmt.Printf("  Raw output:       %s\n", summary.RawFile)
	fmt.Printf("  Enriched output:  %s\n", strings.Join(summary.Artifacts, ", "))
	fmt.Printf("  Duration:         %v\n", summary.Duration.Round(time.Millisecond))
	fmt.Println(separator)
}
