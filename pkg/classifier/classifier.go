package classifier

import (
	"context"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

const (
	MethodKeyword  = "keyword"
	MethodExternal = "external"
	MethodFallback = "keyword_fallback"
)

const defaultConfidence = 0.5

// Classifier labels one article. Implementations never fail: an unusable
// answer degrades to the keyword heuristic.
type Classifier interface {
	Classify(ctx context.Context, headline, content string) model.Classification
}
