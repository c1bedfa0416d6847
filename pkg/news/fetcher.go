package news

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

// Batch is the outcome of one source in a fetch cycle.
type Batch struct {
	Source string
	Items  []model.RawFeedItem
	Err    error
}

type Fetcher struct {
	concurrency int
	logger      *slog.Logger
}

func NewFetcher(concurrency int, logger *slog.Logger) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{concurrency: concurrency, logger: logger}
}

// FetchAll queries every source concurrently. A failing source is logged and
// reported in its Batch; it never aborts the others. Result order follows
// sources.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) []Batch {
	results := make([]Batch, len(sources))

	var g errgroup.Group
	g.SetLimit(f.concurrency)

	for i, src := range sources {
		g.Go(func() error {
			items, err := src.Fetch(ctx)
			results[i] = Batch{Source: src.Name(), Items: items, Err: err}
			if err != nil {
				f.logger.Warn("source unavailable, skipping", "source", src.Name(), "error", err)
				return nil
			}
			f.logger.Debug("source fetched", "source", src.Name(), "items", len(items))
			return nil
		})
	}

	_ = g.Wait()
	return results
}
