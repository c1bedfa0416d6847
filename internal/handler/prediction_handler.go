package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

const (
	defaultPredictionLimit = 10
	maxPredictionLimit     = 100
)

type PredictionStore interface {
	List(ctx context.Context, symbol string, limit, offset int) ([]model.Prediction, error)
	Latest(ctx context.Context, symbol string) (*model.Prediction, error)
	Total(ctx context.Context, symbol string) (int, error)
}

type PredictionHandler struct {
	store PredictionStore
}

func NewPredictionHandler(store PredictionStore) *PredictionHandler {
	return &PredictionHandler{store: store}
}

func (h *PredictionHandler) GetPredictions(c *gin.Context) {
	ctx := c.Request.Context()
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	limit := getQueryLimit(c, defaultPredictionLimit, maxPredictionLimit)
	offset := getQueryOffset(c)

	latest, err := h.store.Latest(ctx, symbol)
	if err != nil {
		slog.Error("Failed to get latest prediction", "symbol", symbol, "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	history, err := h.store.List(ctx, symbol, limit, offset)
	if err != nil {
		slog.Error("Failed to list predictions", "symbol", symbol, "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if history == nil {
		history = []model.Prediction{}
	}

	total, err := h.store.Total(ctx, symbol)
	if err != nil {
		slog.Error("Failed to count predictions", "symbol", symbol, "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	respondOK(c, PredictionsResponse{
		Latest:  latest,
		History: history,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}
