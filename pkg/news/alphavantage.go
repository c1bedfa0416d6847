package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

const alphaVantageURL = "https://www.alphavantage.co/query"

type AlphaVantageClient struct {
	apiKey     string
	topics     string
	limit      int
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string, limit int, httpClient *http.Client) *AlphaVantageClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &AlphaVantageClient{
		apiKey:     apiKey,
		topics:     "financial_markets",
		limit:      limit,
		httpClient: httpClient,
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageClient) Fetch(ctx context.Context) ([]model.RawFeedItem, error) {
	url := fmt.Sprintf(
		"%s?function=NEWS_SENTIMENT&topics=%s&limit=%d&sort=LATEST&apikey=%s",
		alphaVantageURL, c.topics, c.limit, c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage returned %s", resp.Status)
	}

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	// Rate-limit and key errors come back as 200 with a note instead of a feed.
	if raw.Feed == nil && (raw.Information != "" || raw.Note != "") {
		return nil, fmt.Errorf("alphavantage: %s%s", raw.Information, raw.Note)
	}

	items := make([]model.RawFeedItem, 0, len(raw.Feed))
	for _, entry := range raw.Feed {
		symbols := make([]string, 0, len(entry.TickerSentiment))
		for _, ts := range entry.TickerSentiment {
			if ts.Ticker != "" {
				symbols = append(symbols, ts.Ticker)
			}
		}

		items = append(items, model.RawFeedItem{
			SourceURL:    alphaVantageURL,
			SourceName:   entry.Source,
			Title:        CleanText(entry.Title),
			Description:  CleanText(entry.Summary),
			Link:         entry.URL,
			PublishedRaw: entry.TimePublished,
			Symbols:      symbols,
		})
	}

	return items, nil
}

type avResponse struct {
	Feed        []avFeedItem `json:"feed"`
	Information string       `json:"Information"`
	Note        string       `json:"Note"`
}

type avFeedItem struct {
	Title           string              `json:"title"`
	Summary         string              `json:"summary"`
	URL             string              `json:"url"`
	Source          string              `json:"source"`
	TimePublished   string              `json:"time_published"`
	TickerSentiment []avTickerSentiment `json:"ticker_sentiment"`
}

type avTickerSentiment struct {
	Ticker string `json:"ticker"`
}
