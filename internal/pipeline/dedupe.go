package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

// URLChecker reports which URLs are already stored.
type URLChecker interface {
	ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error)
}

// Dedupe keeps the most recent record for every headline and non-null URL.
// The result is ordered newest first; ties keep their input order.
func Dedupe(articles []model.NewsArticle) []model.NewsArticle {
	sorted := make([]model.NewsArticle, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	seenHeadlines := make(map[string]bool, len(sorted))
	seenURLs := make(map[string]bool, len(sorted))
	out := make([]model.NewsArticle, 0, len(sorted))

	for _, a := range sorted {
		url := a.URLValue()
		dup := seenHeadlines[a.Headline] || (a.URL != nil && seenURLs[url])

		seenHeadlines[a.Headline] = true
		if a.URL != nil {
			seenURLs[url] = true
		}

		if !dup {
			out = append(out, a)
		}
	}

	return out
}

// FilterExisting drops articles whose URL is already in the store. Articles
// without a URL always pass.
func FilterExisting(ctx context.Context, store URLChecker, batch []model.NewsArticle) ([]model.NewsArticle, int, error) {
	urls := make([]string, 0, len(batch))
	for _, a := range batch {
		if a.URL != nil {
			urls = append(urls, *a.URL)
		}
	}
	if len(urls) == 0 {
		return batch, 0, nil
	}

	existing, err := store.ExistingURLs(ctx, urls)
	if err != nil {
		return nil, 0, fmt.Errorf("load existing urls: %w", err)
	}

	out := make([]model.NewsArticle, 0, len(batch))
	for _, a := range batch {
		if a.URL != nil && existing[*a.URL] {
			continue
		}
		out = append(out, a)
	}

	return out, len(batch) - len(out), nil
}
