package coordinator

import (
	"context"
	"fmt"
	"io"

	"github.com/sourcegraph/conc/iter"

	"stockscraper/internal/pipeline"
)

// Runner executes the extraction pipeline for one ticker
type Runner interface {
	Run(ctx context.Context, ticker string) pipeline.Outcome
}

// Result is the pipeline outcome for one ticker
type Result struct {
	Ticker  string
	Outcome pipeline.Outcome
}

// Coordinator runs the pipeline for several tickers concurrently
type Coordinator struct {
	runner      Runner
	concurrency int
}

// New creates a new Coordinator. concurrency <= 0 means one goroutine per
// CPU, the conc default.
func New(runner Runner, concurrency int) *Coordinator {
	return &Coordinator{
		runner:      runner,
		concurrency: concurrency,
	}
}

// Collect runs every ticker and returns the results in input order
func (c *Coordinator) Collect(ctx context.Context, tickers []string) []Result {
	mapper := iter.Mapper[string, Result]{MaxGoroutines: c.concurrency}
	return mapper.Map(tickers, func(ticker *string) Result {
		return Result{
			Ticker:  *ticker,
			Outcome: c.runner.Run(ctx, *ticker),
		}
	})
}

// Run looks up every ticker and writes one line per ticker to w, in the
// order given:
//   - Success: "TICKER: N prices, latest X"
//   - Error: "TICKER: ERROR - error message"
func (c *Coordinator) Run(ctx context.Context, tickers []string, w io.Writer) error {
	if len(tickers) == 0 {
		return fmt.Errorf("no tickers given")
	}

	for _, r := range c.Collect(ctx, tickers) {
		out := r.Outcome
		switch {
		case out.Kind != pipeline.KindOK:
			fmt.Fprintf(w, "%s: ERROR - %v\n", r.Ticker, out.Err)
		case len(out.Prices) == 0:
			fmt.Fprintf(w, "%s: 0 prices\n", r.Ticker)
		default:
			fmt.Fprintf(w, "%s: %d prices, latest %s\n", r.Ticker, len(out.Prices), out.Prices[0])
		}
	}

	return nil
}
