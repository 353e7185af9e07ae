// Package pipeline joins scraped books with the country list and writes the
// raw and enriched artifacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-books-catalog/config"
	"github.com/aluiziolira/go-books-catalog/countries"
	"github.com/aluiziolira/go-books-catalog/models"
	"github.com/aluiziolira/go-books-catalog/storage"
)

// CountryResolver yields the reference country list.
type CountryResolver interface {
	Resolve(ctx context.Context) countries.Resolution
}

// BookScraper walks the catalogue.
type BookScraper interface {
	Scrape(ctx context.Context, startURL string, maxPages int) (*models.ScraperResult, error)
}

// Summary describes a completed run.
type Summary struct {
	Result        *models.ScraperResult
	CountryOrigin string
	CountryCount  int
	RawFile       string
	Artifacts     []string
	Duration      time.Duration
}

// Pipeline runs countries, scrape, raw write, assignment and enriched write,
// in that order.
type Pipeline struct {
	cfg       *config.Config
	countries CountryResolver
	scraper   BookScraper
	rnd       Rand
}

// New builds a pipeline. rnd may be nil to use DefaultRand.
func New(cfg *config.Config, resolver CountryResolver, scraper BookScraper, rnd Rand) *Pipeline {
	if rnd == nil {
		rnd = DefaultRand
	}
	return &Pipeline{
		cfg:       cfg,
		countries: resolver,
		scraper:   scraper,
		rnd:       rnd,
	}
}

// Run executes one full pass. A failed listing fetch or artifact write is
// returned; reference-data failures degrade to the unknown country.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if p.cfg == nil {
		return nil, errors.New("pipeline: nil config")
	}
	start := time.Now()

	startURL, err := p.cfg.StartURL()
	if err != nil {
		return nil, err
	}

	resolution := p.countries.Resolve(ctx)
	slog.Info("countries ready",
		slog.String("origin", resolution.Origin),
		slog.Int("count", len(resolution.Countries)),
	)

	result, err := p.scraper.Scrape(ctx, startURL, p.cfg.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("scrape: %w", err)
	}

	raw := make([]models.Book, 0, len(result.Books))
	for _, book := range result.Books {
		if book == nil {
			continue
		}
		raw = append(raw, *book)
	}
	if err := storage.Save(p.cfg.RawOutputFile, raw); err != nil {
		return nil, fmt.Errorf("write raw artifact: %w", err)
	}
	slog.Info("saved raw books", slog.String("path", p.cfg.RawOutputFile), slog.Int("count", len(raw)))

	enriched := AssignCountries(raw, resolution.Countries, p.rnd)
	paths, err := p.writeEnriched(enriched)
	if err != nil {
		return nil, err
	}
	slog.Info("saved enriched books", slog.Any("paths", paths), slog.Int("count", len(enriched)))

	return &Summary{
		Result:        result,
		CountryOrigin: resolution.Origin,
		CountryCount:  len(resolution.Countries),
		RawFile:       p.cfg.RawOutputFile,
		Artifacts:     paths,
		Duration:      time.Since(start),
	}, nil
}

func (p *Pipeline) writeEnriched(books []models.Book) ([]string, error) {
	writer, err := NewOutputWriter(p.cfg.OutputFormat, p.cfg.OutputFile)
	if err != nil {
		return nil, err
	}
	if err := writer.Write(books); err != nil {
		writer.Close()
		return nil, fmt.Errorf("write enriched artifact: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close enriched artifact: %w", err)
	}
	if err := writer.Validate(); err != nil {
		return nil, fmt.Errorf("validate enriched artifact: %w", err)
	}
	return writer.Paths(), nil
}
