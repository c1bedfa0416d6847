package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

const articleListFixture = `{
  "status": "ok",
  "totalResults": 2,
  "articles": [
    {
      "source": {"id": null, "name": "Mint"},
      "title": "Reliance shares surge after quarterly profit beat",
      "description": "The conglomerate reported strong growth.",
      "url": "https://example.com/reliance-surge",
      "publishedAt": "2026-03-03T06:30:00Z"
    },
    {
      "source": {"id": null, "name": "Business Line"},
      "title": "Short",
      "description": null,
      "url": "https://example.com/short",
      "publishedAt": "not a date"
    }
  ]
}`

func TestParseArticleList(t *testing.T) {
	items, err := ParseArticleList("https://newsapi.example/v2/everything", []byte(articleListFixture))

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, "Mint", items[0].SourceName)
	assert.Equal(t, "Reliance shares surge after quarterly profit beat", items[0].Title)
	assert.Equal(t, "https://example.com/reliance-surge", items[0].Link)
	assert.Equal(t, "2026-03-03T06:30:00Z", items[0].PublishedRaw)
	assert.Equal(t, "", items[1].Description)
}

func TestParseArticleListErrorStatus(t *testing.T) {
	_, err := ParseArticleList("u", []byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))

	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, strings.Contains(err.Error(), "bad key"))
}

func TestNewsAPISourceFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q") + "|" + r.URL.Query().Get("pageSize") + "|" + r.URL.Query().Get("apiKey")
		w.Write([]byte(articleListFixture))
	}))
	defer srv.Close()

	src := NewNewsAPISource(srv.URL+"/v2/everything", "k", "stock market india", 50, srv.Client())
	items, err := src.Fetch(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, "stock market india|50|k", gotQuery)
	assert.Equal(t, "NewsAPI", src.Name())
}
