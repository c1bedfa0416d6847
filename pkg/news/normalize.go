package news

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.000-0700",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC850,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"20060102T150405",
}

// Normalize turns a raw item into an unsaved article. Items without a title,
// without a link, or with a title under the minimum length are noise and are
// reported with ok=false.
func Normalize(item model.RawFeedItem, now time.Time) (model.NewsArticle, bool) {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)

	if title == "" || link == "" {
		return model.NewsArticle{}, false
	}
	if utf8.RuneCountInString(title) < model.MinHeadlineChars {
		return model.NewsArticle{}, false
	}

	content := Truncate(strings.TrimSpace(item.Description), model.MaxContentChars)

	article := model.NewsArticle{
		Headline:    Truncate(title, model.MaxHeadlineChars),
		Content:     model.StringPtr(content),
		Source:      sourceName(item),
		URL:         &link,
		PublishedAt: ParseDate(item.PublishedRaw, now),
	}
	for _, sym := range item.Symbols {
		if sym = strings.TrimSpace(sym); sym != "" {
			article.Ticker = &sym
			break
		}
	}
	return article, true
}

// ParseDate tries the known feed layouts and substitutes fallback when none
// match.
func ParseDate(value string, fallback time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

func sourceName(item model.RawFeedItem) string {
	if name := strings.TrimSpace(item.SourceName); name != "" {
		return name
	}
	if u, err := url.Parse(item.SourceURL); err == nil && u.Host != "" {
		return strings.TrimPrefix(u.Host, "www.")
	}
	return "unknown"
}
