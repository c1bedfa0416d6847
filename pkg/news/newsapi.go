package news

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

type articleListResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// ParseArticleList maps an aggregator `articles[]` payload field by field.
func ParseArticleList(sourceURL string, payload []byte) ([]model.RawFeedItem, error) {
	var raw articleListResponse
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode article list: %w", err)
	}

	if raw.Status == "error" {
		return nil, fmt.Errorf("article list error: %s", raw.Message)
	}

	items := make([]model.RawFeedItem, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		description := a.Description
		if strings.TrimSpace(description) == "" {
			description = a.Content
		}

		items = append(items, model.RawFeedItem{
			SourceURL:    sourceURL,
			SourceName:   a.Source.Name,
			Title:        CleanText(a.Title),
			Description:  CleanText(description),
			Link:         strings.TrimSpace(a.URL),
			PublishedRaw: strings.TrimSpace(a.PublishedAt),
		})
	}

	return items, nil
}

// NewNewsAPISource builds a JSON feed source for the aggregator search
// endpoint.
func NewNewsAPISource(baseURL, apiKey, query string, pageSize int, httpClient *http.Client) *FeedSource {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("apiKey", apiKey)

	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return NewFeedSource("NewsAPI", baseURL+sep+params.Encode(), KindJSON, httpClient)
}
