package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

func serve(t *testing.T, d *testDeps, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	newTestRouter(d).ServeHTTP(w, req)
	return w
}

func TestGetNews_Success(t *testing.T) {
	d := newTestDeps()
	url := "https://example.com/a"
	ticker := "INFY"
	d.news.articles = []model.NewsArticle{
		{
			ID:          2,
			Headline:    "Nifty surges as IT stocks rally",
			Source:      "Economic Times",
			URL:         &url,
			PublishedAt: fixedNow.Add(-time.Hour),
			Sentiment:   sentimentPtr(model.SentimentPositive),
			Ticker:      &ticker,
		},
	}

	w := serve(t, d, "GET", "/news?q=nifty&sentiment=positive&ticker=infy&limit=5&hours=6")

	var res NewsResponse
	env := decode(t, w, &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, env.Success)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "positive", *res.Articles[0].Sentiment)
	assert.Equal(t, url, *res.Articles[0].URL)

	f := d.news.lastFilter
	assert.Equal(t, "nifty", f.Query)
	assert.Equal(t, "infy", f.Ticker)
	assert.Equal(t, 5, f.Limit)
	assert.Equal(t, model.SentimentPositive, *f.Sentiment)
	assert.Equal(t, fixedNow.Add(-6*time.Hour), f.Since)
}

func TestGetNews_Defaults(t *testing.T) {
	d := newTestDeps()

	w := serve(t, d, "GET", "/news?limit=abc")

	var res NewsResponse
	decode(t, w, &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, len(res.Articles))
	assert.Equal(t, defaultNewsLimit, d.news.lastFilter.Limit)
	assert.Equal(t, fixedNow.Add(-defaultHours*time.Hour), d.news.lastFilter.Since)
	assert.Equal(t, (*model.Sentiment)(nil), d.news.lastFilter.Sentiment)
}

func TestGetNews_NoWindowAndLimitCap(t *testing.T) {
	d := newTestDeps()

	serve(t, d, "GET", "/news?hours=0&limit=1000&sentiment=all")

	assert.Equal(t, true, d.news.lastFilter.Since.IsZero())
	assert.Equal(t, maxNewsLimit, d.news.lastFilter.Limit)
	assert.Equal(t, (*model.Sentiment)(nil), d.news.lastFilter.Sentiment)
}

func TestGetNews_SentimentFilterReturnsOnlyMatches(t *testing.T) {
	d := newTestDeps()
	d.news.articles = []model.NewsArticle{
		{ID: 4, Headline: "Banks rally on rate hopes", PublishedAt: fixedNow, Sentiment: sentimentPtr(model.SentimentPositive)},
		{ID: 3, Headline: "IT stocks gain on deal wins", PublishedAt: fixedNow, Sentiment: sentimentPtr(model.SentimentPositive)},
		{ID: 2, Headline: "Metals slump on weak demand", PublishedAt: fixedNow, Sentiment: sentimentPtr(model.SentimentNegative)},
		{ID: 1, Headline: "Markets await policy decision", PublishedAt: fixedNow},
	}

	w := serve(t, d, "GET", "/news?sentiment=negative")

	var res NewsResponse
	decode(t, w, &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, int64(2), res.Articles[0].ID)
	assert.Equal(t, "negative", *res.Articles[0].Sentiment)
}

func TestGetNews_NullFieldsStayNull(t *testing.T) {
	d := newTestDeps()
	d.news.articles = []model.NewsArticle{
		{ID: 1, Headline: "Markets await policy decision", Source: "Mint", PublishedAt: fixedNow},
	}

	w := serve(t, d, "GET", "/news")

	assert.Equal(t, true, strings.Contains(w.Body.String(), `"sentiment":null`))
	assert.Equal(t, true, strings.Contains(w.Body.String(), `"content":null`))

	var res NewsResponse
	decode(t, w, &res)
	assert.Equal(t, (*string)(nil), res.Articles[0].Sentiment)
	assert.Equal(t, (*string)(nil), res.Articles[0].Content)
}

func TestGetNews_InvalidSentiment(t *testing.T) {
	d := newTestDeps()

	w := serve(t, d, "GET", "/news?sentiment=bullish")

	env := decode(t, w, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, env.Success)
	assert.Equal(t, "invalid sentiment", env.Error)
}

func TestGetNews_MasksDuplicateURLs(t *testing.T) {
	d := newTestDeps()
	url := "https://example.com/dup"
	d.news.articles = []model.NewsArticle{
		{ID: 9, Headline: "Sensex closes higher on bank gains", URL: &url, PublishedAt: fixedNow},
		{ID: 8, Headline: "Sensex closes higher on bank gains", URL: &url, PublishedAt: fixedNow},
		{ID: 7, Headline: "Rupee steady ahead of policy meeting", PublishedAt: fixedNow.Add(-time.Hour)},
	}

	w := serve(t, d, "GET", "/news")

	var res NewsResponse
	decode(t, w, &res)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, int64(9), res.Articles[0].ID)
	assert.Equal(t, (*string)(nil), res.Articles[1].URL)
}

func TestGetNews_DBError(t *testing.T) {
	d := newTestDeps()
	d.news.err = errDBDown

	w := serve(t, d, "GET", "/news")

	env := decode(t, w, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, env.Success)
}

func TestGetArticle_Found(t *testing.T) {
	d := newTestDeps()
	d.news.article = &model.NewsArticle{ID: 1, Headline: "TCS wins large deal", Source: "Mint", PublishedAt: fixedNow}

	w := serve(t, d, "GET", "/news/1")

	var res ArticleResponse
	decode(t, w, &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "TCS wins large deal", res.Headline)
	assert.Equal(t, "2025-03-10T12:00:00Z", res.PublishedAt)
}

func TestGetArticle_NotFound(t *testing.T) {
	w := serve(t, newTestDeps(), "GET", "/news/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetArticle_InvalidID(t *testing.T) {
	w := serve(t, newTestDeps(), "GET", "/news/aaa")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHealth_Healthy(t *testing.T) {
	d := newTestDeps()
	d.news.count = 42

	w := serve(t, d, "GET", "/health")

	var res HealthResponse
	decode(t, w, &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", res.Status)
	assert.Equal(t, 42, res.Articles)
}

func TestGetHealth_Unhealthy(t *testing.T) {
	d := newTestDeps()
	d.news.err = errDBDown

	w := serve(t, d, "GET", "/health")

	var res HealthResponse
	decode(t, w, &res)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", res.Status)
}
