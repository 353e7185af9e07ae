// Package scraper walks paginated catalogue listings and archives product pages.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-books-catalog/models"
	"github.com/aluiziolira/go-books-catalog/parser"
)

// maxVisitedListings bounds the listing URLs remembered for loop detection.
const maxVisitedListings = 4096

// Scraper drives pagination: fetch, parse, archive, pause, follow the next link.
// Pages are visited one at a time.
type Scraper struct {
	fetcher  PageFetcher
	archiver Archiver
	delay    time.Duration
	Metrics  *Metrics

	sleep func(context.Context, time.Duration) error
}

// NewScraper wires the scraper collaborators. archiver may be nil to skip
// archival; metrics may be nil.
func NewScraper(fetcher PageFetcher, archiver Archiver, delay time.Duration, metrics *Metrics) *Scraper {
	return &Scraper{
		fetcher:  fetcher,
		archiver: archiver,
		delay:    delay,
		Metrics:  metrics,
		sleep:    sleepContext,
	}
}

// Scrape visits at most maxPages listing pages starting at startURL. A failed
// listing fetch aborts the run; failed archives are recorded and skipped.
// Whenever a page links to a next one the scraper pauses, including after the
// last allowed page. A next link back to an already visited listing ends the walk.
func (s *Scraper) Scrape(ctx context.Context, startURL string, maxPages int) (*models.ScraperResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	result := &models.ScraperResult{
		StartTime:    time.Now(),
		ErrorsByType: make(map[string]int),
	}

	visited, err := lru.New[string, struct{}](max(1, min(maxPages, maxVisitedListings)))
	if err != nil {
		return nil, fmt.Errorf("visited set: %w", err)
	}

	current := startURL
	for page := 1; page <= maxPages; page++ {
		slog.Info("scraping page", slog.Int("page", page), slog.String("url", current))
		visited.Add(current, struct{}{})

		body, err := s.fetcher.Fetch(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("fetch listing page %d: %w", page, err)
		}
		listing, err := parser.ParseListing(body, current)
		if err != nil {
			return nil, fmt.Errorf("parse listing page %d: %w", page, err)
		}
		result.PageCount++
		s.Metrics.IncPages()
		s.Metrics.AddItems(len(listing.Books))

		for _, rejected := range listing.Rejected {
			result.InvalidCount++
			slog.Warn("skipping malformed entry",
				slog.String("url", current),
				slog.Any("error", rejected),
			)
		}

		for _, book := range listing.Books {
			result.Books = append(result.Books, book)
			s.archive(ctx, book, result)
		}

		if listing.NextURL == "" {
			break
		}
		if visited.Contains(listing.NextURL) {
			slog.Warn("pagination loop, stopping",
				slog.String("url", current),
				slog.String("next", listing.NextURL),
			)
			break
		}
		if err := s.sleep(ctx, s.delay); err != nil {
			return nil, fmt.Errorf("pause after page %d: %w", page, err)
		}
		if page == maxPages {
			break
		}
		current = listing.NextURL
	}

	result.TotalCount = len(result.Books)
	result.EndTime = time.Now()
	return result, nil
}

func (s *Scraper) archive(ctx context.Context, book *models.Book, result *models.ScraperResult) {
	if s.archiver == nil {
		return
	}
	path, err := s.archiver.Archive(ctx, book)
	if err != nil {
		category := errorTypeLabel(err)
		result.ArchiveFailures++
		result.ErrorsByType[category]++
		result.FailedURLs = append(result.FailedURLs, book.ProductPageLink)
		s.Metrics.IncArchive("failed")
		slog.Warn("archive failed",
			slog.String("title", book.Title),
			slog.String("url", book.ProductPageLink),
			slog.String("category", category),
			slog.Any("error", err),
		)
		return
	}
	result.ArchivedCount++
	s.Metrics.IncArchive("saved")
	slog.Debug("archived product page", slog.String("title", book.Title), slog.String("path", path))
}
