package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"stockscraper/internal/fetcher"
	"stockscraper/internal/history"
)

// ErrTickerMissing is reported when a run is requested without a ticker.
var ErrTickerMissing = errors.New("ticker is required")

// Pipeline turns a ticker into its adjusted close prices:
// validate, build URL, fetch, extract. Each run is independent and keeps no
// state between calls, so one Pipeline may serve concurrent requests.
type Pipeline struct {
	fetcher fetcher.DocumentFetcher
	baseURL string
	logger  *slog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithBaseURL sets the site the history pages are fetched from
func WithBaseURL(baseURL string) Option {
	return func(p *Pipeline) {
		p.baseURL = baseURL
	}
}

// WithLogger sets the logger used for stage diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Pipeline reading documents through f
func New(f fetcher.DocumentFetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher: f,
		baseURL: history.DefaultBaseURL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline for ticker. It never panics on bad input and
// always returns an Outcome; no stage is retried.
func (p *Pipeline) Run(ctx context.Context, ticker string) Outcome {
	if ticker == "" {
		p.logger.Debug("rejecting request without ticker")
		return Outcome{Kind: KindInputMissing, Err: ErrTickerMissing}
	}

	url := history.URL(p.baseURL, ticker)
	log := p.logger.With("ticker", ticker, "url", url)
	log.Debug("fetching history page")

	doc, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn("history page fetch failed", "error", err)
		return Outcome{Kind: KindFetchFailure, Err: fmt.Errorf("fetch %s: %w", ticker, err)}
	}

	ex, err := history.Extract(doc.Body)
	if err != nil {
		log.Warn("history page extraction failed", "error", err)
		return Outcome{Kind: KindExtractFailure, Err: fmt.Errorf("extract %s: %w", ticker, err)}
	}

	if len(ex.Prices) == 0 {
		log.Warn("adjusted close column not found", "rows", ex.Rows)
	} else {
		log.Debug("extracted prices", "count", len(ex.Prices), "rows", ex.Rows)
	}

	return Outcome{Kind: KindOK, Prices: ex.Prices}
}
