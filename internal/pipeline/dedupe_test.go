package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

func article(headline, url string, at time.Time) model.NewsArticle {
	return model.NewsArticle{
		Headline:    headline,
		URL:         model.StringPtr(url),
		Source:      "test",
		PublishedAt: at,
	}
}

func TestDedupeKeepsLatest(t *testing.T) {
	base := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	in := []model.NewsArticle{
		article("Sensex hits record high", "https://a.example/1", base),
		article("Sensex hits record high", "https://b.example/1", base.Add(time.Hour)),
		article("Rupee slips against dollar", "https://a.example/2", base.Add(30*time.Minute)),
		article("Another take on the rupee", "https://a.example/2", base.Add(10*time.Minute)),
	}

	out := Dedupe(in)

	assert.Equal(t, 2, len(out))
	assert.Equal(t, "https://b.example/1", out[0].URLValue())
	assert.Equal(t, "Rupee slips against dollar", out[1].Headline)
}

func TestDedupeTieKeepsInputOrder(t *testing.T) {
	at := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	out := Dedupe([]model.NewsArticle{
		article("Same headline for both", "https://first.example", at),
		article("Same headline for both", "https://second.example", at),
	})

	assert.Equal(t, 1, len(out))
	assert.Equal(t, "https://first.example", out[0].URLValue())
}

func TestDedupeNullURL(t *testing.T) {
	at := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	out := Dedupe([]model.NewsArticle{
		article("First headline without link", "", at),
		article("Second headline without link", "", at),
		article("First headline without link", "", at.Add(-time.Minute)),
	})

	assert.Equal(t, 2, len(out))
}

func TestDedupeNoPairShared(t *testing.T) {
	base := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	var in []model.NewsArticle
	for i := 0; i < 40; i++ {
		h := []string{"Nifty gains", "Nifty gains again", "Bank stocks fall"}[i%3]
		u := []string{"https://x.example/a", "https://x.example/b", "", "https://x.example/c"}[i%4]
		in = append(in, article(h, u, base.Add(time.Duration(i%7)*time.Minute)))
	}

	out := Dedupe(in)

	headlines := map[string]bool{}
	urls := map[string]bool{}
	for i, a := range out {
		assert.Equal(t, false, headlines[a.Headline])
		headlines[a.Headline] = true
		if a.URL != nil {
			assert.Equal(t, false, urls[*a.URL])
			urls[*a.URL] = true
		}
		if i > 0 {
			assert.Equal(t, false, a.PublishedAt.After(out[i-1].PublishedAt))
		}
	}
}

func TestFilterExisting(t *testing.T) {
	at := time.Now()
	store := &fakeStore{}
	store.InsertBatch(context.Background(), []model.NewsArticle{article("Stored already here", "https://x.example/old", at)})

	batch := []model.NewsArticle{
		article("Stored already here", "https://x.example/old", at),
		article("Brand new headline today", "https://x.example/new", at),
		article("No link but still valid", "", at),
	}

	out, skipped, err := FilterExisting(context.Background(), store, batch)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 2, len(out))
	assert.Equal(t, "https://x.example/new", out[0].URLValue())
	assert.Equal(t, true, out[1].URL == nil)
}
