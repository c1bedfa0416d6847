// Package app assembles the components shared by the binaries under cmd/.
package app

import (
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/config"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/classifier"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/llm"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/news"
)

const providerLimit = 50

// SetupLogging installs a JSON slog handler as the default logger.
func SetupLogging(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// Sources lists every configured upstream: the RSS feeds always, keyed
// providers only when their key is set.
func Sources(cfg config.Config, httpClient *http.Client) []news.Source {
	var sources []news.Source

	for _, feed := range cfg.RSSFeeds {
		sources = append(sources, news.NewFeedSource(feedName(feed), feed, news.KindRSS, httpClient))
	}
	if cfg.NewsAPIKey != "" {
		sources = append(sources, news.NewNewsAPISource(cfg.NewsAPIURL, cfg.NewsAPIKey, cfg.NewsQuery, cfg.NewsPageSize, httpClient))
	}
	if cfg.FinnhubAPIKey != "" {
		sources = append(sources, news.NewFinnHubClient(cfg.FinnhubAPIKey, providerLimit))
	}
	if cfg.AlphaVantageAPIKey != "" {
		sources = append(sources, news.NewAlphaVantageClient(cfg.AlphaVantageAPIKey, providerLimit, httpClient))
	}
	if cfg.MassiveAPIKey != "" {
		sources = append(sources, news.NewMassiveClient(cfg.MassiveAPIKey, providerLimit, httpClient))
	}

	return sources
}

func feedName(feed string) string {
	u, err := url.Parse(feed)
	if err != nil || u.Host == "" {
		return feed
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// Generator picks the LLM backend. An explicit LLM_PROVIDER wins; otherwise
// the first backend with a key is used. Nil means keyword-only
// classification.
func Generator(cfg config.Config, httpClient *http.Client) llm.Generator {
	provider := cfg.LLMProvider
	if provider == "" {
		switch {
		case cfg.OpenAIAPIKey != "":
			provider = "openai"
		case cfg.AnthropicAPIKey != "":
			provider = "anthropic"
		case cfg.GeminiAPIKey != "":
			provider = "gemini"
		}
	}

	switch provider {
	case "openai":
		if cfg.OpenAIAPIKey != "" {
			return llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		}
	case "anthropic":
		if cfg.AnthropicAPIKey != "" {
			return llm.NewAnthropicClient(cfg.AnthropicAPIKey)
		}
	case "gemini":
		if cfg.GeminiAPIKey != "" {
			return llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiURL, httpClient)
		}
	case "", "none", "keyword":
		return nil
	default:
		slog.Warn("unknown LLM provider, using keyword classification", "provider", provider)
		return nil
	}

	slog.Warn("LLM provider selected without an API key, using keyword classification", "provider", provider)
	return nil
}

// Classifier builds the keyword classifier from the lexicon and wraps it
// with the external backend when one is configured. The keyword classifier
// is returned too for callers that need its watchlist.
func Classifier(cfg config.Config, gen llm.Generator, logger *slog.Logger) (classifier.Classifier, *classifier.Keywords, error) {
	lex, err := classifier.LoadLexicon(cfg.KeywordsFile)
	if err != nil {
		return nil, nil, err
	}
	keywords, err := classifier.NewKeywords(lex)
	if err != nil {
		return nil, nil, err
	}

	if gen == nil {
		logger.Info("classifier ready", "method", classifier.MethodKeyword)
		return keywords, keywords, nil
	}

	logger.Info("classifier ready", "method", classifier.MethodExternal, "model", gen.ModelName())
	return classifier.NewExternal(gen, keywords, logger), keywords, nil
}
