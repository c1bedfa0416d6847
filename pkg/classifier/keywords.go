package classifier

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

// Keywords is the deterministic classifier. Each keyword counts once when it
// starts a word in the text, so "surge" matches "surges" but "gain" does not
// match "again".
type Keywords struct {
	positive  keywordSet
	negative  keywordSet
	regional  keywordSet
	finance   keywordSet
	watchlist *Watchlist
}

func NewKeywords(lex *Lexicon) (*Keywords, error) {
	wl, err := NewWatchlist(lex.Watchlist)
	if err != nil {
		return nil, err
	}

	k := &Keywords{watchlist: wl}
	for _, set := range []struct {
		dst   *keywordSet
		words []string
	}{
		{&k.positive, lex.Sentiment.Positive},
		{&k.negative, lex.Sentiment.Negative},
		{&k.regional, lex.Regional},
		{&k.finance, lex.Finance},
	} {
		if *set.dst, err = compileKeywords(set.words); err != nil {
			return nil, err
		}
	}
	return k, nil
}

func (k *Keywords) Watchlist() *Watchlist {
	return k.watchlist
}

func (k *Keywords) Classify(_ context.Context, headline, content string) model.Classification {
	text := headline + " " + content

	pos := k.positive.count(text)
	neg := k.negative.count(text)

	tickers, companies := k.watchlist.Match(text)

	return model.Classification{
		Sentiment:        sentimentFromCounts(pos, neg),
		Confidence:       defaultConfidence,
		IsFinanceRelated: k.finance.count(text) > 0,
		IsRegionalMatch:  k.regional.count(text) > 0,
		Tickers:          tickers,
		Companies:        companies,
		Method:           MethodKeyword,
	}
}

func sentimentFromCounts(pos, neg int) model.Sentiment {
	switch {
	case pos > neg && pos > 0:
		return model.SentimentPositive
	case neg > pos && neg > 0:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

type keywordSet []*regexp.Regexp

func compileKeywords(words []string) (keywordSet, error) {
	set := make(keywordSet, 0, len(words))
	for _, w := range words {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(w))
		if err != nil {
			return nil, fmt.Errorf("compile keyword %q: %w", w, err)
		}
		set = append(set, re)
	}
	return set, nil
}

// count reports how many distinct keywords occur in text.
func (s keywordSet) count(text string) int {
	n := 0
	for _, re := range s {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}
