package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultNewsAPIURL  = "https://newsapi.org/v2/everything"
	defaultNewsQuery   = "stock market OR nifty OR sensex OR earnings"
	defaultQuoteAPIURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta"
)

var defaultRSSFeeds = []string{
	"https://economictimes.indiatimes.com/markets/rssfeeds/1977021501.cms",
	"https://www.moneycontrol.com/rss/marketreports.xml",
	"https://www.livemint.com/rss/markets",
}

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	NATSURL     string
	LogLevel    slog.Level

	NewsAPIURL   string
	NewsAPIKey   string
	NewsQuery    string
	NewsPageSize int
	RSSFeeds     []string

	FinnhubAPIKey      string
	AlphaVantageAPIKey string
	MassiveAPIKey      string

	LLMProvider     string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string
	GeminiURL       string

	QuoteAPIURL       string
	QuoteSymbolSuffix string
	QuoteCacheTTL     time.Duration

	FetchConcurrency int
	HTTPTimeout      time.Duration
	PredictionSeed   int64
	KeywordsFile     string
	MigrationsDir    string
	ReclassifyPoll   time.Duration
	AllowedOrigins   []string
}

// Load reads the environment. Callers load .env (godotenv) before calling it.
func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		NATSURL:     os.Getenv("NATS_URL"),
		LogLevel:    parseLevel(os.Getenv("LOG_LEVEL")),

		NewsAPIURL:   getEnv("NEWS_API_URL", defaultNewsAPIURL),
		NewsAPIKey:   os.Getenv("NEWS_API_KEY"),
		NewsQuery:    getEnv("NEWS_QUERY", defaultNewsQuery),
		NewsPageSize: getIntEnv("NEWS_PAGE_SIZE", 50),
		RSSFeeds:     getListEnv("RSS_FEEDS", defaultRSSFeeds),

		FinnhubAPIKey:      os.Getenv("FINNHUB_API_KEY"),
		AlphaVantageAPIKey: os.Getenv("ALPHA_VANTAGE_API_KEY"),
		MassiveAPIKey:      os.Getenv("MASSIVE_API_KEY"),

		LLMProvider:     strings.ToLower(os.Getenv("LLM_PROVIDER")),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiURL:       getEnv("GEMINI_API_URL", defaultGeminiURL),

		QuoteAPIURL:       getEnv("QUOTE_API_URL", defaultQuoteAPIURL),
		QuoteSymbolSuffix: getEnv("QUOTE_SYMBOL_SUFFIX", ".NS"),
		QuoteCacheTTL:     getDurationEnv("QUOTE_CACHE_TTL", time.Minute),

		FetchConcurrency: getIntEnv("FETCH_CONCURRENCY", 4),
		HTTPTimeout:      getDurationEnv("HTTP_TIMEOUT", 15*time.Second),
		PredictionSeed:   int64(getIntEnv("PREDICTION_SEED", 0)),
		KeywordsFile:     os.Getenv("KEYWORDS_FILE"),
		MigrationsDir:    getEnv("MIGRATIONS_DIR", "migrations"),
		ReclassifyPoll:   getDurationEnv("RECLASSIFY_POLL", 5*time.Second),
		AllowedOrigins:   getListEnv("ALLOWED_ORIGINS", nil),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer env, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration env, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}

func getListEnv(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
