package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Default reference-data endpoints, tried in order. The second one serves the
// older schema with a flat name field.
var DefaultCountryEndpoints = []string{
	"https://restcountries.com/v3.1/all?fields=name",
	"https://restcountries.com/v2/all?fields=name",
}

// Config holds scraper pipeline configuration.
type Config struct {
	BaseURL          string
	CategoryPath     string
	MaxPages         int
	PageDelay        time.Duration
	Timeout          time.Duration
	CountriesTimeout time.Duration
	MaxRetries       int
	RetryBackoff     time.Duration
	RetryBackoffMax  time.Duration
	RawOutputFile    string
	OutputFile       string
	OutputFormat     string // json or dual
	ArchiveDir       string
	CacheFile        string
	CacheTTL         time.Duration
	CountryEndpoints []string
	UserAgent        string
	Verbose          bool
	MetricsAddr      string
}

// DefaultConfig returns conservative defaults for the demo target.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "https://books.toscrape.com/",
		CategoryPath:     "catalogue/category/books/travel_2/index.html",
		MaxPages:         3,
		PageDelay:        time.Second,
		Timeout:          10 * time.Second,
		CountriesTimeout: 15 * time.Second,
		MaxRetries:       2,
		RetryBackoff:     200 * time.Millisecond,
		RetryBackoffMax:  2 * time.Second,
		RawOutputFile:    "data/books.json",
		OutputFile:       "data/books_with_country.json",
		OutputFormat:     "json",
		ArchiveDir:       "html_backup",
		CacheFile:        "data/countries_cache.json",
		CacheTTL:         24 * time.Hour,
		CountryEndpoints: append([]string(nil), DefaultCountryEndpoints...),
		UserAgent:        "Mozilla/5.0 (compatible; book-scraper/1.0; +https://example.com)",
		Verbose:          false,
	}
}

// StartURL resolves the category path against the base URL.
func (c *Config) StartURL() (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	ref, err := url.Parse(c.CategoryPath)
	if err != nil {
		return "", fmt.Errorf("invalid category path: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}
	if strings.TrimSpace(c.CategoryPath) == "" {
		return fmt.Errorf("category path cannot be empty")
	}

	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	if c.PageDelay < 0 {
		return fmt.Errorf("page delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.CountriesTimeout <= 0 {
		return fmt.Errorf("countries timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff max cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.RawOutputFile == "" {
		return fmt.Errorf("raw output file cannot be empty")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFile == c.RawOutputFile {
		return fmt.Errorf("output file and raw output file must differ")
	}
	if c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be json or dual")
	}
	if c.CacheFile == "" {
		return fmt.Errorf("cache file cannot be empty")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	for _, endpoint := range c.CountryEndpoints {
		parsed, err := url.Parse(endpoint)
		if err != nil || parsed.Host == "" {
			return fmt.Errorf("invalid country endpoint %q", endpoint)
		}
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
