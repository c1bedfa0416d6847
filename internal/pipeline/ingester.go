package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/events"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/metrics"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/classifier"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/news"
)

// ArticleWriter is the persistence side the ingester needs.
type ArticleWriter interface {
	URLChecker
	InsertBatch(ctx context.Context, articles []model.NewsArticle) ([]model.NewsArticle, error)
}

// RunResult summarises one ingestion run.
type RunResult struct {
	RunID           string        `json:"run_id"`
	Sources         int           `json:"sources"`
	FailedSources   []string      `json:"failed_sources"`
	Fetched         int           `json:"fetched"`
	Parsed          int           `json:"parsed"`
	Attempted       int           `json:"attempted"`
	Inserted        int           `json:"inserted"`
	SkippedExisting int           `json:"skipped_existing"`
	Duration        time.Duration `json:"-"`
	DurationMS      int64         `json:"duration_ms"`
}

type IngesterDeps struct {
	Fetcher    *news.Fetcher
	Sources    []news.Source
	Classifier classifier.Classifier
	Store      ArticleWriter
	Publisher  events.Publisher
	// Retry receives articles whose external classification fell back to
	// keywords. Optional.
	Retry  *Reclassifier
	Logger *slog.Logger
	Now    func() time.Time
}

// Ingester runs the fetch → parse → classify → dedupe → persist pipeline.
// It holds no state between runs.
type Ingester struct {
	fetcher    *news.Fetcher
	sources    []news.Source
	classifier classifier.Classifier
	store      ArticleWriter
	publisher  events.Publisher
	retry      *Reclassifier
	logger     *slog.Logger
	now        func() time.Time
}

func NewIngester(deps IngesterDeps) *Ingester {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = news.NewFetcher(1, logger)
	}

	return &Ingester{
		fetcher:    fetcher,
		sources:    deps.Sources,
		classifier: deps.Classifier,
		store:      deps.Store,
		publisher:  publisher,
		retry:      deps.Retry,
		logger:     logger.With("component", "ingester"),
		now:        now,
	}
}

// Run performs one ingestion pass. Source and classification failures are
// absorbed; only a persistence failure is returned.
func (in *Ingester) Run(ctx context.Context) (RunResult, error) {
	start := in.now()
	res := RunResult{
		RunID:         uuid.NewString(),
		Sources:       len(in.sources),
		FailedSources: []string{},
	}
	logger := in.logger.With("run_id", res.RunID)

	batches := in.fetcher.FetchAll(ctx, in.sources)

	var parsed []model.NewsArticle
	for _, b := range batches {
		if b.Err != nil {
			res.FailedSources = append(res.FailedSources, b.Source)
			metrics.SourceFailures.WithLabelValues(b.Source).Inc()
			continue
		}
		res.Fetched += len(b.Items)

		for _, item := range b.Items {
			if a, ok := news.Normalize(item, start); ok {
				parsed = append(parsed, a)
			}
		}
	}
	res.Parsed = len(parsed)
	metrics.ArticlesProcessed.WithLabelValues("fetched").Add(float64(res.Fetched))
	metrics.ArticlesProcessed.WithLabelValues("parsed").Add(float64(res.Parsed))

	fellBack := make(map[string]bool)
	for i := range parsed {
		c := in.classifier.Classify(ctx, parsed[i].Headline, parsed[i].ContentValue())
		applyClassification(&parsed[i], c)
		if c.Method == classifier.MethodFallback {
			metrics.ClassifierFallbacks.Inc()
			fellBack[articleKey(parsed[i])] = true
		}
	}

	batch := Dedupe(parsed)

	batch, skipped, err := FilterExisting(ctx, in.store, batch)
	if err != nil {
		return in.finish(res, start, logger, err)
	}
	res.SkippedExisting = skipped
	res.Attempted = len(batch)

	inserted, err := in.store.InsertBatch(ctx, batch)
	if err != nil {
		return in.finish(res, start, logger, fmt.Errorf("insert batch: %w", err))
	}
	res.Inserted = len(inserted)
	metrics.ArticlesProcessed.WithLabelValues("inserted").Add(float64(res.Inserted))

	for _, a := range inserted {
		if err := in.publisher.Publish(ctx, events.New(events.TypeInserted, a)); err != nil {
			logger.Warn("failed to publish event", "article_id", a.ID, "error", err)
		}
		if in.retry != nil && fellBack[articleKey(a)] {
			if err := in.retry.Enqueue(ctx, Job{ArticleID: a.ID}); err != nil {
				logger.Warn("failed to queue reclassification", "article_id", a.ID, "error", err)
			}
		}
	}

	return in.finish(res, start, logger, nil)
}

func (in *Ingester) finish(res RunResult, start time.Time, logger *slog.Logger, err error) (RunResult, error) {
	res.Duration = in.now().Sub(start)
	res.DurationMS = res.Duration.Milliseconds()
	metrics.IngestDuration.Observe(res.Duration.Seconds())

	attrs := []any{
		"sources", res.Sources,
		"failed_sources", len(res.FailedSources),
		"fetched", res.Fetched,
		"parsed", res.Parsed,
		"attempted", res.Attempted,
		"inserted", res.Inserted,
		"skipped_existing", res.SkippedExisting,
		"duration", res.Duration,
	}

	if err != nil {
		metrics.IngestRuns.WithLabelValues("error").Inc()
		logger.Error("ingestion failed", append(attrs, "error", err)...)
		return res, err
	}

	metrics.IngestRuns.WithLabelValues("ok").Inc()
	logger.Info("ingestion complete", attrs...)
	return res, nil
}

func applyClassification(a *model.NewsArticle, c model.Classification) {
	s := c.Sentiment
	a.Sentiment = &s
	if t := c.PrimaryTicker(); t != nil {
		a.Ticker = t
	}
}

func articleKey(a model.NewsArticle) string {
	return a.Headline + "\x00" + a.URLValue()
}
