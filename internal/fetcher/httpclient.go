package fetcher

import (
	"context"
	"io"
	"log/slog"
	"time"

	"resty.dev/v3"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; stockscraper/1.0)"
)

// Option configures an HTTPFetcher
type Option func(*HTTPFetcher)

// WithTimeout bounds every fetch, including reading the body
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header sent to the source
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// HTTPFetcher fetches documents over HTTP(S) with a single attempt per call
type HTTPFetcher struct {
	timeout   time.Duration
	userAgent string
	client    *resty.Client
}

// NewHTTPFetcher creates a new document fetcher
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = resty.New().
		SetTimeout(f.timeout).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetHeader("User-Agent", f.userAgent)

	return f
}

// Fetch retrieves url and returns its body as text. The body is read in
// full; a connection dropped mid-body is a transport failure, never a
// shortened document.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Document, error) {
	start := time.Now()

	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)

	if err != nil {
		return Document{}, f.transportFailure(url, err)
	}
	defer resp.Body.Close()

	slog.Debug("document fetched",
		"url", url,
		"status_code", resp.StatusCode(),
		"duration", time.Since(start))

	if !resp.IsSuccess() {
		return Document{}, ClassifyHTTPError(url, resp.StatusCode())
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, f.transportFailure(url, err)
	}

	return Document{
		URL:        url,
		StatusCode: resp.StatusCode(),
		Body:       string(body),
	}, nil
}

func (f *HTTPFetcher) transportFailure(url string, err error) *FetchError {
	fe := ClassifyTransportError(url, err)
	slog.Debug("document fetch failed",
		"url", url,
		"type", fe.Type,
		"error", err.Error())
	return fe
}

// Close releases idle connections held by the underlying client
func (f *HTTPFetcher) Close() error {
	return f.client.Close()
}
