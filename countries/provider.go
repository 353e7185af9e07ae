package countries

import (
	"context"
	"log/slog"

	"github.com/aluiziolira/go-books-catalog/models"
)

// Origins reported in a Resolution besides a source name.
const (
	OriginCache    = "cache"
	OriginFallback = "fallback"
)

// Resolution is a resolved country list and where it came from.
type Resolution struct {
	Countries []string
	Origin    string
}

// Provider resolves the country list: the file cache, then each source in
// order. It never fails; when nothing is available the list is the single
// UnknownCountry entry.
type Provider struct {
	cache   *FileCache
	sources []Source
}

// NewProvider builds a provider. cache may be nil to always hit the sources.
func NewProvider(cache *FileCache, sources ...Source) *Provider {
	return &Provider{
		cache:   cache,
		sources: sources,
	}
}

// Resolve returns the resolved list and its origin.
func (p *Provider) Resolve(ctx context.Context) Resolution {
	if p.cache != nil {
		if names, ok := p.cache.Load(); ok {
			slog.Info("using cached countries list", slog.String("path", p.cache.path), slog.Int("count", len(names)))
			return Resolution{Countries: names, Origin: OriginCache}
		}
	}

	for _, source := range p.sources {
		slog.Info("fetching countries", slog.String("source", source.Name()))
		names, err := source.Countries(ctx)
		if err != nil {
			slog.Warn("country source failed", slog.String("source", source.Name()), slog.Any("error", err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if p.cache != nil {
			if err := p.cache.Save(names); err != nil {
				slog.Warn("cannot persist countries cache", slog.Any("error", err))
			} else {
				slog.Info("saved countries cache", slog.String("path", p.cache.path), slog.Int("count", len(names)))
			}
		}
		return Resolution{Countries: names, Origin: source.Name()}
	}

	slog.Error("could not fetch countries from any source", slog.Int("sources", len(p.sources)))
	return Resolution{Countries: []string{models.UnknownCountry}, Origin: OriginFallback}
}
