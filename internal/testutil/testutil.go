package testutil

import (
	"context"
	"strings"
	"sync/atomic"

	"stockscraper/internal/fetcher"
)

// MockFetcher is a mock implementation of the DocumentFetcher interface for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context, url string) (fetcher.Document, error)

	calls atomic.Int64
}

// Fetch implements the DocumentFetcher interface
func (m *MockFetcher) Fetch(ctx context.Context, url string) (fetcher.Document, error) {
	m.calls.Add(1)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, url)
	}
	return fetcher.Document{URL: url, StatusCode: 200}, nil
}

// Calls reports how many times Fetch was invoked
func (m *MockFetcher) Calls() int {
	return int(m.calls.Load())
}

// NewMockFetcher creates a mock fetcher that always returns body or err
func NewMockFetcher(body string, err error) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context, url string) (fetcher.Document, error) {
			if err != nil {
				return fetcher.Document{}, err
			}
			return fetcher.Document{URL: url, StatusCode: 200, Body: body}, nil
		},
	}
}

// HistoryPage renders a minimal history table whose rows carry the given
// adjusted close values in the sixth cell.
func HistoryPage(prices ...string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body><table>`)
	b.WriteString(`<thead><tr><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close*</th><th>Adj Close**</th><th>Volume</th></tr></thead><tbody>`)
	for _, p := range prices {
		b.WriteString(`<tr><td>...</td><td>...</td><td>...</td><td>...</td><td>...</td><td>`)
		b.WriteString(p)
		b.WriteString(`</td><td>1,000</td></tr>`)
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}
