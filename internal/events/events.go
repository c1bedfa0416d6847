package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/metrics"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

type Type string

const (
	TypeInserted Type = "inserted"
	TypeUpdated  Type = "updated"
	TypeDeleted  Type = "deleted"
)

// Event tells subscribers that a stored article changed.
type Event struct {
	ID      string             `json:"id"`
	Type    Type               `json:"type"`
	Article *model.NewsArticle `json:"article"`
	At      time.Time          `json:"at"`
}

func New(t Type, article model.NewsArticle) Event {
	return Event{
		ID:      uuid.NewString(),
		Type:    t,
		Article: &article,
		At:      time.Now().UTC(),
	}
}

// Publisher delivers change events. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Counted records every publish attempt under the given backend label.
func Counted(backend string, p Publisher) Publisher {
	return countedPublisher{backend: backend, next: p}
}

type countedPublisher struct {
	backend string
	next    Publisher
}

func (c countedPublisher) Publish(ctx context.Context, e Event) error {
	err := c.next.Publish(ctx, e)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.EventsPublished.WithLabelValues(c.backend, status).Inc()
	return err
}
