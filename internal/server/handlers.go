package server

import (
	"context"
	"encoding/json"
	"net/http"

	"stockscraper/internal/pipeline"
)

// Runner executes the extraction pipeline for one ticker
type Runner interface {
	Run(ctx context.Context, ticker string) pipeline.Outcome
}

type messageBody struct {
	Message string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// RootHandler answers GET / with a static liveness message
func RootHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, messageBody{Message: "Stock scraper is running"})
	})
}

// StockHandler runs the pipeline for the stock query parameter. Success
// returns {"prices": [...]}; failures return {"error": kind}.
func StockHandler(p Runner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out := p.Run(r.Context(), r.URL.Query().Get("stock"))
		if out.Kind != pipeline.KindOK {
			writeError(w, out.Status(), out.Kind.String())
			return
		}
		writeJSON(w, http.StatusOK, pipeline.Body{Prices: out.Prices})
	})
}

// EchoHandler accepts {"message": string} and echoes it back
func EchoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b messageBody
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		writeJSON(w, http.StatusOK, b)
	})
}

// Middleware wraps a handler
type Middleware func(http.Handler) http.Handler

// Wrap applies mws to h so the first middleware runs first
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Routes returns the service's route table. stockMiddleware runs before the
// pipeline on /api/stock only, in the order given.
func Routes(p Runner, stockMiddleware ...Middleware) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/", Handler: RootHandler()},
		{Method: http.MethodGet, Path: "/api/stock", Handler: Wrap(StockHandler(p), stockMiddleware...)},
		{Method: http.MethodPost, Path: "/api/test", Handler: EchoHandler()},
	}
}
