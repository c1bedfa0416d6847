package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/metrics"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestBrokerDelivers(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe()
	defer cancel()

	e := New(TypeInserted, model.NewsArticle{ID: 7, Headline: "Sensex closes higher"})
	assert.Equal(t, nil, b.Publish(context.Background(), e))

	select {
	case got := <-ch:
		assert.Equal(t, e.ID, got.ID)
		assert.Equal(t, int64(7), got.Article.ID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBrokerCancelClosesChannel(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	assert.Equal(t, false, ok)

	// Publishing after the only subscriber left is a no-op.
	assert.Equal(t, nil, b.Publish(context.Background(), New(TypeUpdated, model.NewsArticle{})))
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Publish(context.Background(), New(TypeInserted, model.NewsArticle{ID: int64(i)}))
	}

	assert.Equal(t, subscriberBuffer, len(ch))
}

func TestMultiJoinsErrors(t *testing.T) {
	ok := &recordingPublisher{}
	bad := &recordingPublisher{err: errors.New("down")}

	err := Multi{ok, bad}.Publish(context.Background(), New(TypeInserted, model.NewsArticle{}))

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 1, len(ok.events))
	assert.Equal(t, 1, len(bad.events))
}

func TestDecode(t *testing.T) {
	e := New(TypeUpdated, model.NewsArticle{ID: 3, Headline: "RBI holds repo rate"})
	data, _ := json.Marshal(e)

	got, err := Decode(data)
	assert.Equal(t, nil, err)
	assert.Equal(t, TypeUpdated, got.Type)
	assert.Equal(t, "RBI holds repo rate", got.Article.Headline)

	_, err = Decode([]byte(`{"type":"inserted"}`))
	assert.NotEqual(t, nil, err)
}

func TestCountedRecordsOutcome(t *testing.T) {
	ok := Counted("counted_ok", &recordingPublisher{})
	failing := Counted("counted_err", &recordingPublisher{err: errors.New("down")})
	e := New(TypeInserted, model.NewsArticle{ID: 1, Headline: "Markets open flat"})

	assert.Equal(t, nil, ok.Publish(context.Background(), e))
	assert.NotEqual(t, nil, failing.Publish(context.Background(), e))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("counted_ok", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("counted_err", "error")))
}
