package scraper

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-books-catalog/config"
)

// FetcherConfig controls the shared collector used for every request.
type FetcherConfig struct {
	UserAgent       string
	Timeout         time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	RetryBackoffMax time.Duration
}

// FetcherConfigFrom derives fetcher settings from the scraper configuration.
func FetcherConfigFrom(cfg *config.Config) FetcherConfig {
	return FetcherConfig{
		UserAgent:       cfg.UserAgent,
		Timeout:         cfg.Timeout,
		MaxRetries:      cfg.MaxRetries,
		RetryBackoff:    cfg.RetryBackoff,
		RetryBackoffMax: cfg.RetryBackoffMax,
	}
}

// Fetcher performs bounded GET requests through a colly collector that
// carries a fixed user agent. Transient failures are retried with backoff.
type Fetcher struct {
	cfg       FetcherConfig
	collector *colly.Collector
	metrics   *Metrics
	sleep     func(context.Context, time.Duration) error
}

// NewFetcher builds a fetcher from cfg. metrics may be nil.
func NewFetcher(cfg FetcherConfig, metrics *Metrics) *Fetcher {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = true
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	return &Fetcher{
		cfg:       cfg,
		collector: collector,
		metrics:   metrics,
		sleep:     sleepContext,
	}
}

// WithTransport replaces the round tripper shared by every request.
func (f *Fetcher) WithTransport(rt http.RoundTripper) {
	f.collector.WithTransport(rt)
}

// Fetch returns the response body of url or a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		body, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}

		f.metrics.IncError(errorTypeLabel(err))
		if attempt >= f.cfg.MaxRetries || !retryable(err) || ctx.Err() != nil {
			return nil, err
		}

		delay := f.backoff(attempt + 1)
		f.metrics.IncRetries()
		slog.Debug("retrying fetch",
			slog.String("url", url),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)
		if err := f.sleep(ctx, delay); err != nil {
			return nil, &FetchError{URL: url, Err: err}
		}
	}
}

type fetchResult struct {
	body   []byte
	status int
	err    error
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	collector := f.collector.Clone()
	start := time.Now()
	var result fetchResult

	collector.OnRequest(func(*colly.Request) {
		f.metrics.IncRequest("started")
	})
	collector.OnResponse(func(r *colly.Response) {
		result.body = append([]byte(nil), r.Body...)
		result.status = r.StatusCode
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.status = r.StatusCode
		}
		result.err = err
	})

	done := make(chan fetchResult, 1)
	go func() {
		if err := collector.Visit(url); err != nil && result.err == nil {
			result.err = err
		}
		done <- result
	}()

	select {
	case <-ctx.Done():
		return nil, &FetchError{URL: url, Err: ctx.Err()}
	case res := <-done:
		f.metrics.ObserveDuration(time.Since(start))
		if res.err != nil {
			f.metrics.IncRequest("failed")
			return nil, &FetchError{URL: url, StatusCode: res.status, Err: classifyError(res.err, res.status)}
		}
		f.metrics.IncRequest("completed")
		return res.body, nil
	}
}

func (f *Fetcher) backoff(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	base := f.cfg.RetryBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	delay := base * time.Duration(1<<(attempt-1))
	if max := f.cfg.RetryBackoffMax; max > 0 && delay > max {
		delay = max
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
