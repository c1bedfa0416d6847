package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/llm"
)

var errNoJSON = errors.New("no JSON object in response")

type externalResult struct {
	Sentiment        string   `json:"sentiment"`
	Confidence       *float64 `json:"confidence"`
	IsFinanceRelated *bool    `json:"is_finance_related"`
	IsRegionalMatch  *bool    `json:"is_regional_match"`
	Tickers          []string `json:"tickers"`
	Companies        []string `json:"companies"`
}

// External asks a text generator for a classification and falls back to the
// keyword heuristic on any failure.
type External struct {
	gen      llm.Generator
	keywords *Keywords
	logger   *slog.Logger
}

func NewExternal(gen llm.Generator, keywords *Keywords, logger *slog.Logger) *External {
	if logger == nil {
		logger = slog.Default()
	}
	return &External{gen: gen, keywords: keywords, logger: logger}
}

func (e *External) Classify(ctx context.Context, headline, content string) model.Classification {
	base := e.keywords.Classify(ctx, headline, content)

	result, err := e.ask(ctx, headline, content)
	if err != nil {
		e.logger.Warn("external classification failed, using keywords",
			"model", e.gen.ModelName(), "error", err)
		base.Method = MethodFallback
		return base
	}

	sentiment, _ := model.ParseSentiment(strings.ToLower(strings.TrimSpace(result.Sentiment)))

	c := model.Classification{
		Sentiment:        sentiment,
		Confidence:       defaultConfidence,
		IsFinanceRelated: base.IsFinanceRelated,
		IsRegionalMatch:  base.IsRegionalMatch,
		Method:           MethodExternal,
	}
	if result.Confidence != nil {
		c.Confidence = clamp(*result.Confidence, 0, 1)
	}
	if result.IsFinanceRelated != nil {
		c.IsFinanceRelated = *result.IsFinanceRelated
	}
	if result.IsRegionalMatch != nil {
		c.IsRegionalMatch = *result.IsRegionalMatch
	}

	c.Tickers, c.Companies = normalizeTickers(result.Tickers, result.Companies)
	if len(c.Tickers) == 0 {
		c.Tickers, c.Companies = base.Tickers, base.Companies
	}

	return c
}

func (e *External) ask(ctx context.Context, headline, content string) (*externalResult, error) {
	prompt := llm.ClassificationPrompt(headline, content, e.keywords.Watchlist().Symbols())

	text, err := e.gen.Generate(ctx, llm.ClassifySystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	raw, ok := llm.ExtractJSON(text)
	if !ok {
		return nil, errNoJSON
	}

	var result externalResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, raw)
	}

	if _, ok := model.ParseSentiment(strings.ToLower(strings.TrimSpace(result.Sentiment))); !ok {
		return nil, fmt.Errorf("invalid sentiment %q", result.Sentiment)
	}

	return &result, nil
}

func normalizeTickers(tickers, companies []string) ([]string, []string) {
	outT := []string{}
	outC := []string{}
	seen := make(map[string]bool, len(tickers))
	for i, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		outT = append(outT, t)
		if i < len(companies) {
			outC = append(outC, strings.TrimSpace(companies[i]))
		} else {
			outC = append(outC, t)
		}
	}
	return outT, outC
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
