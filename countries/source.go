package countries

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyList is returned by a source whose response held no country names.
var ErrEmptyList = errors.New("no country names in response")

// Getter retrieves the body of a URL.
type Getter interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Source yields a country list from one place.
type Source interface {
	Name() string
	Countries(ctx context.Context) ([]string, error)
}

// EndpointSource reads a country list from one reference endpoint.
type EndpointSource struct {
	url    string
	getter Getter
}

// NewEndpointSource returns a source for url.
func NewEndpointSource(getter Getter, url string) *EndpointSource {
	return &EndpointSource{url: url, getter: getter}
}

// EndpointSources builds one source per URL, preserving order.
func EndpointSources(getter Getter, urls []string) []Source {
	sources := make([]Source, 0, len(urls))
	for _, url := range urls {
		sources = append(sources, NewEndpointSource(getter, url))
	}
	return sources
}

func (s *EndpointSource) Name() string {
	return s.url
}

func (s *EndpointSource) Countries(ctx context.Context) ([]string, error) {
	body, err := s.getter.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}
	names, err := ExtractNames(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.url, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", s.url, ErrEmptyList)
	}
	return names, nil
}
