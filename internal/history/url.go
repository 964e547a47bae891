package history

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is the public site serving the historical price pages
const DefaultBaseURL = "https://finance.yahoo.com"

// URL returns the historical-prices page for ticker under baseURL.
//
// The ticker is path- and query-escaped so symbols carrying reserved
// characters (e.g. "BRK/B" or "^GSPC") still produce a well-formed URL.
// URL does not validate ticker; callers must reject empty input first.
func URL(baseURL, ticker string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") +
		"/quote/" + url.PathEscape(ticker) +
		"/history?p=" + url.QueryEscape(ticker)
}
