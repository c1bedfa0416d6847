package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

const maxPayloadBytes = 4 << 20

// Source yields raw items from one upstream. Implementations must be safe to
// call concurrently with other sources.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.RawFeedItem, error)
}

type FeedKind string

const (
	KindRSS  FeedKind = "rss"
	KindJSON FeedKind = "json"
)

// FeedSource downloads a payload from a fixed URL and parses it according to
// its kind.
type FeedSource struct {
	name       string
	url        string
	kind       FeedKind
	httpClient *http.Client
}

func NewFeedSource(name, url string, kind FeedKind, httpClient *http.Client) *FeedSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &FeedSource{name: name, url: url, kind: kind, httpClient: httpClient}
}

func (s *FeedSource) Name() string {
	return s.name
}

func (s *FeedSource) Fetch(ctx context.Context) ([]model.RawFeedItem, error) {
	payload, err := s.Download(ctx)
	if err != nil {
		return nil, err
	}

	var items []model.RawFeedItem
	switch s.kind {
	case KindJSON:
		items, err = ParseArticleList(s.url, payload)
	default:
		items, err = ParseRSS(s.url, payload)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.name, err)
	}

	for i := range items {
		if items[i].SourceName == "" {
			items[i].SourceName = s.name
		}
	}
	return items, nil
}

// Download performs the GET and returns the body. Non-2xx is an error.
func (s *FeedSource) Download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "MarketPulse/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s fetch: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s returned %s", s.name, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", s.name, err)
	}
	return body, nil
}
