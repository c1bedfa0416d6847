package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/pipeline"
)

const (
	defaultNewsLimit = 30
	maxNewsLimit     = 100
	defaultHours     = 24
	maxHours         = 24 * 30
)

type NewsStore interface {
	Search(ctx context.Context, f model.ArticleFilter) ([]model.NewsArticle, error)
	GetByID(ctx context.Context, id int64) (*model.NewsArticle, error)
	Count(ctx context.Context) (int, error)
}

type NewsHandler struct {
	store NewsStore
	now   func() time.Time
}

func NewNewsHandler(store NewsStore) *NewsHandler {
	return &NewsHandler{store: store, now: time.Now}
}

// GetNews serves the dashboard read contract: recency window, text search,
// sentiment and ticker filters, newest first.
func (h *NewsHandler) GetNews(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	articles, err := h.store.Search(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Failed to search news", "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	articles = pipeline.Dedupe(articles)

	res := NewsResponse{
		Articles: make([]ArticleResponse, len(articles)),
		Count:    len(articles),
		Limit:    filter.Limit,
	}
	for i, a := range articles {
		res.Articles[i] = toArticleResponse(a)
	}
	respondOK(c, res)
}

func (h *NewsHandler) parseFilter(c *gin.Context) (model.ArticleFilter, bool) {
	filter := model.ArticleFilter{
		Query:  strings.TrimSpace(c.Query("q")),
		Ticker: strings.TrimSpace(c.Query("ticker")),
		Limit:  getQueryLimit(c, defaultNewsLimit, maxNewsLimit),
	}

	// hours=0 disables the recency window.
	hours := getQueryInt(c, "hours", defaultHours)
	if hours > maxHours {
		hours = maxHours
	}
	if hours > 0 {
		filter.Since = h.now().Add(-time.Duration(hours) * time.Hour)
	}

	sentiment, ok := querySentiment(c)
	if !ok {
		return filter, false
	}
	filter.Sentiment = sentiment

	return filter, true
}

// querySentiment reads the optional sentiment filter. "all" means none; an
// unknown value is answered with 400 and ok=false.
func querySentiment(c *gin.Context) (*model.Sentiment, bool) {
	raw := strings.ToLower(strings.TrimSpace(c.Query("sentiment")))
	if raw == "" || raw == "all" {
		return nil, true
	}
	s, ok := model.ParseSentiment(raw)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid sentiment")
		return nil, false
	}
	return &s, true
}

func (h *NewsHandler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(c, http.StatusBadRequest, "Invalid ID")
		return
	}

	article, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("Failed to get article", "id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if article == nil {
		respondError(c, http.StatusNotFound, "Article not found")
		return
	}

	respondOK(c, toArticleResponse(*article))
}

func (h *NewsHandler) GetHealth(c *gin.Context) {
	count, err := h.store.Count(c.Request.Context())
	if err != nil {
		slog.Error("Health check failed", "error", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Data:    HealthResponse{Status: "unhealthy"},
			Error:   "database unavailable",
		})
		return
	}

	respondOK(c, HealthResponse{Status: "healthy", Articles: count})
}

func getQueryInt(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("Invalid query param, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return value
}

func getQueryLimit(c *gin.Context, defaultLimit, maxLimit int) int {
	limit := getQueryInt(c, "limit", defaultLimit)
	if limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt(c, "offset", 0)
	if offset < 0 {
		return 0
	}
	return offset
}
