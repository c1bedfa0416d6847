package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/pipeline"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/predict"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/quote"
)

type Ingestion interface {
	Run(ctx context.Context) (pipeline.RunResult, error)
}

type QuoteStore interface {
	Upsert(ctx context.Context, q *model.Quote) error
}

type PredictionWriter interface {
	Save(ctx context.Context, p *model.Prediction) error
}

type Predictor interface {
	Predict(in predict.Input) model.Prediction
}

type FunctionsDeps struct {
	Ingester    Ingestion
	Quotes      quote.Fetcher
	QuoteStore  QuoteStore
	Predictor   Predictor
	Predictions PredictionWriter
}

// FunctionsHandler serves the on-demand triggers the dashboard invokes.
type FunctionsHandler struct {
	ingester    Ingestion
	quotes      quote.Fetcher
	quoteStore  QuoteStore
	predictor   Predictor
	predictions PredictionWriter
}

func NewFunctionsHandler(deps FunctionsDeps) *FunctionsHandler {
	return &FunctionsHandler{
		ingester:    deps.Ingester,
		quotes:      deps.Quotes,
		quoteStore:  deps.QuoteStore,
		predictor:   deps.Predictor,
		predictions: deps.Predictions,
	}
}

type QuoteRequest struct {
	Symbol string `json:"symbol"`
}

type PredictRequest struct {
	Symbol       string `json:"symbol"`
	NewsHeadline string `json:"news_headline"`
	Sentiment    string `json:"sentiment"`
}

func (h *FunctionsHandler) RefreshNews(c *gin.Context) {
	result, err := h.ingester.Run(c.Request.Context())
	if err != nil {
		slog.Error("Ingestion run failed", "run_id", result.RunID, "error", err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, result)
}

func (h *FunctionsHandler) FetchQuote(c *gin.Context) {
	var req QuoteRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	q, ok := h.fetchQuote(c, req.Symbol)
	if !ok {
		return
	}

	if err := h.quoteStore.Upsert(c.Request.Context(), q); err != nil {
		slog.Error("Failed to store quote", "symbol", q.Symbol, "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	respondOK(c, q)
}

func (h *FunctionsHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	sentiment := model.SentimentNeutral
	if raw := strings.ToLower(strings.TrimSpace(req.Sentiment)); raw != "" {
		s, ok := model.ParseSentiment(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "invalid sentiment")
			return
		}
		sentiment = s
	}

	q, ok := h.fetchQuote(c, req.Symbol)
	if !ok {
		return
	}

	prediction := h.predictor.Predict(predict.Input{
		Symbol:       quote.NormalizeSymbol(req.Symbol),
		NewsHeadline: strings.TrimSpace(req.NewsHeadline),
		Sentiment:    sentiment,
		Quote:        q,
	})

	if err := h.predictions.Save(c.Request.Context(), &prediction); err != nil {
		slog.Error("Failed to store prediction", "symbol", prediction.Symbol, "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	respondOK(c, prediction)
}

func (h *FunctionsHandler) fetchQuote(c *gin.Context, symbol string) (*model.Quote, bool) {
	if strings.TrimSpace(symbol) == "" {
		respondError(c, http.StatusBadRequest, model.ErrInvalidSymbol.Error())
		return nil, false
	}

	q, err := h.quotes.Fetch(c.Request.Context(), symbol)
	if errors.Is(err, model.ErrInvalidSymbol) {
		respondError(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if err != nil {
		slog.Error("Quote fetch failed", "symbol", symbol, "error", err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return q, true
}

// bindOptionalJSON decodes the body when one is present. A malformed body is
// a 400.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
