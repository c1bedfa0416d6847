package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: message})
}

type ArticleResponse struct {
	ID          int64   `json:"id"`
	Headline    string  `json:"headline"`
	Content     *string `json:"content"`
	Source      string  `json:"source"`
	URL         *string `json:"url"`
	PublishedAt string  `json:"published_at"`
	Sentiment   *string `json:"sentiment"`
	Ticker      *string `json:"ticker"`
}

type NewsResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Count    int               `json:"count"`
	Limit    int               `json:"limit"`
}

type PredictionsResponse struct {
	Latest  *model.Prediction  `json:"latest"`
	History []model.Prediction `json:"history"`
	Total   int                `json:"total"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Articles int    `json:"articles"`
}

func toArticleResponse(a model.NewsArticle) ArticleResponse {
	res := ArticleResponse{
		ID:          a.ID,
		Headline:    a.Headline,
		Content:     a.Content,
		Source:      a.Source,
		URL:         a.URL,
		PublishedAt: a.PublishedAt.UTC().Format(time.RFC3339),
		Ticker:      a.Ticker,
	}
	if a.Sentiment != nil {
		s := string(*a.Sentiment)
		res.Sentiment = &s
	}
	return res
}
