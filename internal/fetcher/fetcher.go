package fetcher

import "context"

//go:generate mockgen -package=pipeline_test -destination=../pipeline/mock_document_fetcher_test.go -source=fetcher.go DocumentFetcher

// DocumentFetcher retrieves the raw text of a remote document.
//
// Implementations perform exactly one outbound request per call and must
// return a *FetchError for any transport failure or non-2xx response, so a
// served error page is never handed on as if it were the requested document.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (Document, error)
}

// Document is a successfully retrieved response body.
// It is request-scoped and never shared across requests.
type Document struct {
	URL        string
	StatusCode int
	Body       string
}
