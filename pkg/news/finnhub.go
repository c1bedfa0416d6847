package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

const finnhubSourceURL = "https://finnhub.io/api/v1/news"

type FinnHubClient struct {
	client   *finnhub.DefaultApiService
	category string
	limit    int
}

func NewFinnHubClient(apiKey string, limit int) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client, category: "general", limit: limit}
}

func (c *FinnHubClient) Fetch(ctx context.Context) ([]model.RawFeedItem, error) {
	res, _, err := c.client.MarketNews(ctx).Category(c.category).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub fetch: %w", err)
	}

	items := make([]model.RawFeedItem, 0, len(res))
	for _, news := range res {
		if c.limit > 0 && len(items) >= c.limit {
			break
		}

		item := model.RawFeedItem{
			SourceURL:  finnhubSourceURL,
			SourceName: c.Name(),
		}

		if news.Headline != nil {
			item.Title = CleanText(*news.Headline)
		}

		if news.Summary != nil {
			item.Description = CleanText(*news.Summary)
		}

		if news.Url != nil {
			item.Link = *news.Url
		}

		if news.Datetime != nil {
			item.PublishedRaw = time.Unix(*news.Datetime, 0).UTC().Format(time.RFC3339)
		}

		if news.Source != nil && *news.Source != "" {
			item.SourceName = *news.Source
		}

		if news.Related != nil && *news.Related != "" {
			item.Symbols = strings.Split(*news.Related, ",")
		}

		items = append(items, item)
	}

	return items, nil
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}
