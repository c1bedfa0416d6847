package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/events"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/classifier"
)

const MaxReclassifyAttempts = 3

// ErrQueueEmpty is returned by Queue.Pop when nothing arrived before the
// timeout.
var ErrQueueEmpty = errors.New("queue empty")

// Job asks for one stored article to be classified again.
type Job struct {
	ArticleID int64 `json:"article_id"`
	Attempt   int   `json:"attempt"`
}

type Queue interface {
	Push(ctx context.Context, payload string) error
	Pop(ctx context.Context, timeout time.Duration) (string, error)
	DeadLetter(ctx context.Context, payload string) error
}

type ArticleUpdater interface {
	GetByID(ctx context.Context, id int64) (*model.NewsArticle, error)
	UpdateClassification(ctx context.Context, id int64, sentiment model.Sentiment, ticker *string) (*model.NewsArticle, error)
}

// Reclassifier retries external classification for articles that were
// stored with a keyword fallback, updating them in place on success.
type Reclassifier struct {
	queue      Queue
	store      ArticleUpdater
	classifier classifier.Classifier
	publisher  events.Publisher
	logger     *slog.Logger
}

func NewReclassifier(queue Queue, store ArticleUpdater, c classifier.Classifier, publisher events.Publisher, logger *slog.Logger) *Reclassifier {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Reclassifier{
		queue:      queue,
		store:      store,
		classifier: c,
		publisher:  publisher,
		logger:     logger.With("component", "reclassifier"),
	}
}

func (r *Reclassifier) Enqueue(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.queue.Push(ctx, string(data))
}

// Run processes jobs until ctx is cancelled.
func (r *Reclassifier) Run(ctx context.Context, pollTimeout time.Duration) error {
	r.logger.Info("reclassifier started")
	for {
		if ctx.Err() != nil {
			r.logger.Info("reclassifier stopped")
			return nil
		}

		if _, err := r.ProcessNext(ctx, pollTimeout); err != nil {
			if ctx.Err() != nil {
				continue
			}
			r.logger.Error("failed to process job", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

// ProcessNext handles at most one job. It reports false when the queue was
// empty.
func (r *Reclassifier) ProcessNext(ctx context.Context, timeout time.Duration) (bool, error) {
	payload, err := r.queue.Pop(ctx, timeout)
	if errors.Is(err, ErrQueueEmpty) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("pop job: %w", err)
	}

	var job Job
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		r.logger.Warn("dropping malformed job", "payload", payload, "error", err)
		return true, r.queue.DeadLetter(ctx, payload)
	}
	job.Attempt++

	logger := r.logger.With("article_id", job.ArticleID, "attempt", job.Attempt)

	article, err := r.store.GetByID(ctx, job.ArticleID)
	if err != nil {
		return true, r.retry(ctx, job, logger, fmt.Errorf("load article: %w", err))
	}
	if article == nil {
		logger.Warn("article not found, dropping job")
		return true, nil
	}

	c := r.classifier.Classify(ctx, article.Headline, article.ContentValue())
	if c.Method == classifier.MethodFallback {
		return true, r.retry(ctx, job, logger, errors.New("external classifier unavailable"))
	}

	ticker := article.Ticker
	if t := c.PrimaryTicker(); t != nil {
		ticker = t
	}

	updated, err := r.store.UpdateClassification(ctx, article.ID, c.Sentiment, ticker)
	if errors.Is(err, model.ErrNotFound) {
		logger.Warn("article vanished before update")
		return true, nil
	}
	if err != nil {
		return true, r.retry(ctx, job, logger, err)
	}

	if err := r.publisher.Publish(ctx, events.New(events.TypeUpdated, *updated)); err != nil {
		logger.Warn("failed to publish event", "error", err)
	}

	logger.Info("article reclassified", "sentiment", c.Sentiment, "method", c.Method)
	return true, nil
}

func (r *Reclassifier) retry(ctx context.Context, job Job, logger *slog.Logger, cause error) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if job.Attempt >= MaxReclassifyAttempts {
		logger.Error("giving up on article", "error", cause)
		return r.queue.DeadLetter(ctx, string(data))
	}

	logger.Warn("reclassification failed, requeueing", "error", cause)
	return r.queue.Push(ctx, string(data))
}
