package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/events"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/metrics"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

type Subscriber interface {
	Subscribe() (<-chan events.Event, func())
}

// StreamHandler pushes article change events to dashboard clients over SSE.
type StreamHandler struct {
	subscriber Subscriber
	heartbeat  time.Duration
}

func NewStreamHandler(subscriber Subscriber, heartbeat time.Duration) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &StreamHandler{subscriber: subscriber, heartbeat: heartbeat}
}

// Stream accepts the q, sentiment and ticker filters of GET /news and only
// forwards events whose article matches.
func (h *StreamHandler) Stream(c *gin.Context) {
	sentiment, ok := querySentiment(c)
	if !ok {
		return
	}
	filter := model.ArticleFilter{
		Query:     strings.TrimSpace(c.Query("q")),
		Ticker:    strings.TrimSpace(c.Query("ticker")),
		Sentiment: sentiment,
	}

	ch, cancel := h.subscriber.Subscribe()
	defer cancel()

	metrics.StreamConnections.Inc()
	defer metrics.StreamConnections.Dec()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if e.Article != nil && !filter.Matches(*e.Article) {
				continue
			}
			c.SSEvent(string(e.Type), e)
		case t := <-ticker.C:
			c.SSEvent("ping", t.UTC().Format(time.RFC3339))
		}
		c.Writer.Flush()
	}
}
