package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

const massiveURL = "https://api.massive.com/v2/reference/news"

type MassiveClient struct {
	apiKey     string
	limit      int
	httpClient *http.Client
}

func NewMassiveClient(apiKey string, limit int, httpClient *http.Client) *MassiveClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &MassiveClient{
		apiKey:     apiKey,
		limit:      limit,
		httpClient: httpClient,
	}
}

func (c *MassiveClient) Name() string {
	return "Massive"
}

func (c *MassiveClient) Fetch(ctx context.Context) ([]model.RawFeedItem, error) {
	url := fmt.Sprintf(
		"%s?limit=%d&order=desc&sort=published_utc&apiKey=%s",
		massiveURL, c.limit, c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("massive request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("massive fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("massive returned %s", resp.Status)
	}

	var raw massiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("massive decode: %w", err)
	}

	items := make([]model.RawFeedItem, 0, len(raw.Results))
	for _, r := range raw.Results {
		items = append(items, model.RawFeedItem{
			SourceURL:    massiveURL,
			SourceName:   r.Publisher.Name,
			Title:        CleanText(r.Title),
			Description:  CleanText(r.Description),
			Link:         r.ArticleURL,
			PublishedRaw: r.PublishedUTC,
			Symbols:      r.Tickers,
		})
	}

	return items, nil
}

type massiveResponse struct {
	Results []massiveResult `json:"results"`
}

type massiveResult struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	ArticleURL   string           `json:"article_url"`
	PublishedUTC string           `json:"published_utc"`
	Tickers      []string         `json:"tickers"`
	Publisher    massivePublisher `json:"publisher"`
}

type massivePublisher struct {
	Name string `json:"name"`
}
