package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/events"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/pipeline"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/predict"
)

var errDBDown = errors.New("DB down")

type fakeNewsStore struct {
	articles   []model.NewsArticle
	article    *model.NewsArticle
	count      int
	err        error
	lastFilter model.ArticleFilter
}

func (f *fakeNewsStore) Search(_ context.Context, filter model.ArticleFilter) ([]model.NewsArticle, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	var out []model.NewsArticle
	for _, a := range f.articles {
		if filter.Matches(a) && len(out) < filter.Limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeNewsStore) GetByID(_ context.Context, id int64) (*model.NewsArticle, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.article != nil && f.article.ID == id {
		return f.article, nil
	}
	return nil, nil
}

func (f *fakeNewsStore) Count(context.Context) (int, error) {
	return f.count, f.err
}

type fakePredictionStore struct {
	history    []model.Prediction
	latest     *model.Prediction
	total      int
	err        error
	lastSymbol string
	lastLimit  int
	lastOffset int
	saved      []model.Prediction
}

func (f *fakePredictionStore) List(_ context.Context, symbol string, limit, offset int) ([]model.Prediction, error) {
	f.lastSymbol, f.lastLimit, f.lastOffset = symbol, limit, offset
	return f.history, f.err
}

func (f *fakePredictionStore) Latest(context.Context, string) (*model.Prediction, error) {
	return f.latest, f.err
}

func (f *fakePredictionStore) Total(context.Context, string) (int, error) {
	return f.total, f.err
}

func (f *fakePredictionStore) Save(_ context.Context, p *model.Prediction) error {
	if f.err != nil {
		return f.err
	}
	p.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, *p)
	return nil
}

type fakeIngester struct {
	result pipeline.RunResult
	err    error
	calls  int
}

func (f *fakeIngester) Run(context.Context) (pipeline.RunResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeQuotes struct {
	quote *model.Quote
	err   error
	asked []string
}

func (f *fakeQuotes) Fetch(_ context.Context, symbol string) (*model.Quote, error) {
	f.asked = append(f.asked, symbol)
	return f.quote, f.err
}

type fakeQuoteStore struct {
	upserted []model.Quote
	err      error
}

func (f *fakeQuoteStore) Upsert(_ context.Context, q *model.Quote) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, *q)
	return nil
}

type fakeSubscriber struct {
	events []events.Event
}

// Subscribe hands out a channel that is already drained and closed once the
// queued events are read.
func (f *fakeSubscriber) Subscribe() (<-chan events.Event, func()) {
	ch := make(chan events.Event, len(f.events))
	for _, e := range f.events {
		ch <- e
	}
	close(ch)
	return ch, func() {}
}

type testDeps struct {
	news        *fakeNewsStore
	predictions *fakePredictionStore
	ingester    *fakeIngester
	quotes      *fakeQuotes
	quoteStore  *fakeQuoteStore
	subscriber  *fakeSubscriber
}

func newTestDeps() *testDeps {
	return &testDeps{
		news:        &fakeNewsStore{},
		predictions: &fakePredictionStore{},
		ingester:    &fakeIngester{},
		quotes:      &fakeQuotes{quote: sampleQuote()},
		quoteStore:  &fakeQuoteStore{},
		subscriber:  &fakeSubscriber{},
	}
}

func newTestRouter(d *testDeps) *gin.Engine {
	gin.SetMode(gin.TestMode)

	news := NewNewsHandler(d.news)
	news.now = func() time.Time { return fixedNow }

	return NewRouter(RouterDeps{
		News: news,
		Functions: NewFunctionsHandler(FunctionsDeps{
			Ingester:    d.ingester,
			Quotes:      d.quotes,
			QuoteStore:  d.quoteStore,
			Predictor:   predict.NewSeeded(7),
			Predictions: d.predictions,
		}),
		Predictions: NewPredictionHandler(d.predictions),
		Stream:      NewStreamHandler(d.subscriber, time.Hour),
	})
}

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func sampleQuote() *model.Quote {
	q := &model.Quote{
		Symbol:        "RELIANCE",
		Price:         2950,
		PreviousClose: 2900,
		Change:        50,
		ChangePercent: 1.72,
		Currency:      "INR",
		Exchange:      "NSI",
		FetchedAt:     fixedNow,
	}
	for i := 0; i < 25; i++ {
		q.History = append(q.History, model.PricePoint{
			Time:  fixedNow.AddDate(0, 0, i-25),
			Close: 2800 + float64(i*6),
		})
	}
	return q
}

func sentimentPtr(s model.Sentiment) *model.Sentiment {
	return &s
}
