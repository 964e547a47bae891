package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"stockscraper/internal/config"
	"stockscraper/internal/coordinator"
	"stockscraper/internal/fetcher"
	"stockscraper/internal/gate"
	"stockscraper/internal/pipeline"
	"stockscraper/internal/ratelimit"
	"stockscraper/internal/server"
)

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("Failed to parse flags: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	docs := fetcher.NewHTTPFetcher(
		fetcher.WithTimeout(cfg.FetchTimeout),
		fetcher.WithUserAgent(cfg.UserAgent),
	)
	defer docs.Close()

	p := pipeline.New(docs,
		pipeline.WithBaseURL(cfg.HistoryBaseURL),
		pipeline.WithLogger(logger),
	)

	// Cancel on interrupt for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tickers on the command line: look them up once and exit
	if tickers := flags.Args(); len(tickers) > 0 {
		if err := coordinator.New(p, 0).Run(ctx, tickers, os.Stdout); err != nil {
			log.Fatalf("Lookup failed: %v", err)
		}
		return
	}

	if err := cfg.RequireServe(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	srv := server.New(cfg.Addr(), routes(cfg, p), logger)

	go func() {
		logger.Info("server has started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

// routes wires the pipeline behind the per-client limiter and the access gate.
func routes(cfg *config.Config, p server.Runner) []server.Route {
	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
	g := gate.New(cfg.AccessPassword)
	return server.Routes(p, limiter.Middleware, g.Middleware)
}
