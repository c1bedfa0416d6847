package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/events"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStore struct {
	mu        sync.Mutex
	articles  []model.NewsArticle
	nextID    int64
	insertErr error
}

func (f *fakeStore) ExistingURLs(_ context.Context, urls []string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := map[string]bool{}
	for _, u := range urls {
		for _, a := range f.articles {
			if a.URL != nil && *a.URL == u {
				out[u] = true
			}
		}
	}
	return out, nil
}

func (f *fakeStore) InsertBatch(_ context.Context, batch []model.NewsArticle) ([]model.NewsArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return nil, f.insertErr
	}
	var out []model.NewsArticle
	for _, a := range batch {
		f.nextID++
		a.ID = f.nextID
		a.CreatedAt = time.Now()
		a.UpdatedAt = a.CreatedAt
		f.articles = append(f.articles, a)
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*model.NewsArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.articles {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdateClassification(_ context.Context, id int64, s model.Sentiment, ticker *string) (*model.NewsArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.articles {
		if f.articles[i].ID == id {
			f.articles[i].Sentiment = &s
			f.articles[i].Ticker = ticker
			cp := f.articles[i]
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

type fakeQueue struct {
	items []string
	dead  []string
}

func (q *fakeQueue) Push(_ context.Context, payload string) error {
	q.items = append(q.items, payload)
	return nil
}

func (q *fakeQueue) Pop(_ context.Context, _ time.Duration) (string, error) {
	if len(q.items) == 0 {
		return "", ErrQueueEmpty
	}
	p := q.items[0]
	q.items = q.items[1:]
	return p, nil
}

func (q *fakeQueue) DeadLetter(_ context.Context, payload string) error {
	q.dead = append(q.dead, payload)
	return nil
}

type stubSource struct {
	name  string
	items []model.RawFeedItem
	err   error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Fetch(context.Context) ([]model.RawFeedItem, error) {
	return s.items, s.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

type fakeGenerator struct {
	out string
	err error
}

func (g *fakeGenerator) Generate(context.Context, string, string) (string, error) {
	return g.out, g.err
}

func (g *fakeGenerator) ModelName() string { return "fake" }

var errUpstream = errors.New("upstream unavailable")
