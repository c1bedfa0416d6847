package model

import (
	"errors"
	"strings"
	"time"
)

const (
	MaxHeadlineChars = 500
	MaxContentChars  = 1000
	MinHeadlineChars = 10
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidSymbol = errors.New("symbol is required")
	ErrNoQuoteData   = errors.New("no quote data returned")
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

func ParseSentiment(s string) (Sentiment, bool) {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return Sentiment(s), true
	}
	return "", false
}

// RawFeedItem is what a parser pulls out of one upstream payload, before any
// normalization. It never reaches the store.
type RawFeedItem struct {
	SourceURL    string
	SourceName   string
	Title        string
	Description  string
	Link         string
	PublishedRaw string
	// Symbols is set by providers that tag their own tickers.
	Symbols []string
}

type NewsArticle struct {
	ID          int64      `json:"id"`
	Headline    string     `json:"headline"`
	Content     *string    `json:"content"`
	Source      string     `json:"source"`
	URL         *string    `json:"url"`
	PublishedAt time.Time  `json:"published_at"`
	Sentiment   *Sentiment `json:"sentiment"`
	Ticker      *string    `json:"ticker"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (a NewsArticle) URLValue() string {
	if a.URL == nil {
		return ""
	}
	return *a.URL
}

func (a NewsArticle) ContentValue() string {
	if a.Content == nil {
		return ""
	}
	return *a.Content
}

// ArticleFilter is the read contract the dashboard depends on.
type ArticleFilter struct {
	Since     time.Time
	Query     string
	Sentiment *Sentiment
	Ticker    string
	Limit     int
}

// Matches applies the filter to one article in memory, with the same
// semantics the store uses: inclusive recency window, case-insensitive
// substring search over headline, content and ticker, exact sentiment, ticker
// substring. Limit is not considered.
func (f ArticleFilter) Matches(a NewsArticle) bool {
	if !f.Since.IsZero() && a.PublishedAt.Before(f.Since) {
		return false
	}
	if f.Sentiment != nil && (a.Sentiment == nil || *a.Sentiment != *f.Sentiment) {
		return false
	}

	ticker := ""
	if a.Ticker != nil {
		ticker = strings.ToLower(*a.Ticker)
	}
	if t := strings.ToLower(strings.TrimSpace(f.Ticker)); t != "" && !strings.Contains(ticker, t) {
		return false
	}

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return strings.Contains(strings.ToLower(a.Headline), q) ||
			strings.Contains(strings.ToLower(a.ContentValue()), q) ||
			strings.Contains(ticker, q)
	}
	return true
}

type Classification struct {
	Sentiment        Sentiment `json:"sentiment"`
	Confidence       float64   `json:"confidence"`
	IsFinanceRelated bool      `json:"is_finance_related"`
	IsRegionalMatch  bool      `json:"is_regional_match"`
	Tickers          []string  `json:"tickers"`
	Companies        []string  `json:"companies"`
	Method           string    `json:"method"`
}

// PrimaryTicker returns the first extracted ticker, or nil.
func (c Classification) PrimaryTicker() *string {
	if len(c.Tickers) == 0 {
		return nil
	}
	t := c.Tickers[0]
	return &t
}

func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
