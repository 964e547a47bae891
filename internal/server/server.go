package server

import (
	"log/slog"
	"net/http"
	"time"
)

// Route binds a handler to one method and path. Each method/path pair may
// appear once.
type Route struct {
	Method  string
	Path    string
	Handler http.Handler
}

// NewRouter registers routes on a ServeMux, which answers 404 for unknown
// paths and 405 for a known path with an unregistered method. Path "/"
// matches the root only.
func NewRouter(routes []Route) *http.ServeMux {
	mux := http.NewServeMux()
	for _, r := range routes {
		path := r.Path
		if path == "/" {
			path = "/{$}"
		}
		mux.Handle(r.Method+" "+path, r.Handler)
	}
	return mux
}

// New creates an http.Server serving routes behind the standard middleware chain.
func New(addr string, routes []Route, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &http.Server{
		Addr:              addr,
		Handler:           Chain(NewRouter(routes), logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

// Chain wraps h with panic recovery, request logging, CORS/JSON headers and
// a request body cap, outermost first.
func Chain(h http.Handler, logger *slog.Logger) http.Handler {
	return recoverPanic(logRequests(withJSONHeaders(limitBody(h)), logger), logger)
}
