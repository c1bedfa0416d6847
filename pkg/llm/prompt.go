package llm

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const PromptVersion = "v2"

const maxPromptContentChars = 600

const ClassifySystemPrompt = `You are a financial news analyst covering Indian equity markets.

Classify the article you are given.

### Rules

- sentiment is the likely effect on the stocks mentioned: "positive", "negative" or "neutral"
- confidence is a number between 0 and 1
- is_finance_related is true only when the article is about markets, companies, the economy or monetary policy
- is_regional_match is true when the article concerns India, Indian companies or Indian markets
- tickers are NSE symbols of companies that are a primary subject of the article, most relevant first. Prefer symbols from the watchlist when they apply
- companies are the full names for those tickers, in the same order
- Do not guess: an empty list is better than an unrelated symbol

Output JSON only, no other text:
{
  "sentiment": "positive | negative | neutral",
  "confidence": 0.0,
  "is_finance_related": true,
  "is_regional_match": true,
  "tickers": ["RELIANCE"],
  "companies": ["Reliance Industries"]
}`

// ClassificationPrompt renders the user turn for one article.
func ClassificationPrompt(headline, content string, watchlist []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Headline: %s\n", headline))
	if content != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", truncate(content, maxPromptContentChars)))
	}
	if len(watchlist) > 0 {
		sb.WriteString(fmt.Sprintf("Watchlist: %s\n", strings.Join(watchlist, ", ")))
	}
	return sb.String()
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
