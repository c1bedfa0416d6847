package predict

import (
	"math"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

func quoteFrom(closes ...float64) *model.Quote {
	q := &model.Quote{Symbol: "TCS"}
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		q.History = append(q.History, model.PricePoint{Time: start.AddDate(0, 0, i), Close: c})
	}
	if len(closes) > 0 {
		q.Price = closes[len(closes)-1]
	}
	return q
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}

	assert.Equal(t, 5.0, SMA(values, 3))
	assert.Equal(t, 3.5, SMA(values, 20))
	assert.Equal(t, 0.0, SMA(nil, 5))
}

func TestRSI(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(100 + i)
	}
	assert.Equal(t, 100.0, RSI(rising, 14))

	assert.Equal(t, 50.0, RSI([]float64{1, 2, 3}, 14))

	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 10
	}
	assert.Equal(t, 50.0, RSI(flat, 14))

	// Alternating +2/-1 over 14 changes: 7 gains of 2, 7 losses of 1.
	alt := []float64{100}
	for i := 0; i < 14; i++ {
		if i%2 == 0 {
			alt = append(alt, alt[len(alt)-1]+2)
		} else {
			alt = append(alt, alt[len(alt)-1]-1)
		}
	}
	assert.Equal(t, true, math.Abs(RSI(alt, 14)-66.6667) < 0.001)
}

func TestVolatility(t *testing.T) {
	assert.Equal(t, 0.0, Volatility([]float64{100}))
	assert.Equal(t, 0.0, Volatility([]float64{100, 100, 100}))
	assert.Equal(t, true, Volatility([]float64{100, 110, 99, 120}) > 0.05)
}

func TestPredictIsReproducibleWithSeed(t *testing.T) {
	q := quoteFrom(100, 101, 102, 101, 103, 104, 105, 104, 106, 107)
	in := Input{Symbol: "TCS", NewsHeadline: "TCS wins deal", Sentiment: model.SentimentPositive, Quote: q}

	a := NewSeeded(42).Predict(in)
	b := NewSeeded(42).Predict(in)

	assert.Equal(t, a, b)
	assert.Equal(t, Method, a.Method)
	assert.Equal(t, 107.0, a.CurrentPrice)
}

func TestPredictBoundsAndDirection(t *testing.T) {
	q := quoteFrom(100, 101, 102, 101, 103, 104, 105, 104, 106, 107)
	p := NewSeeded(7)

	for i := 0; i < 50; i++ {
		out := p.Predict(Input{Symbol: "TCS", Sentiment: model.SentimentNegative, Quote: q})

		assert.Equal(t, true, out.Confidence >= 0.3 && out.Confidence <= 0.9)
		switch out.Direction {
		case "up":
			assert.Equal(t, true, out.PredictedPrice >= out.CurrentPrice)
		case "down":
			assert.Equal(t, true, out.PredictedPrice <= out.CurrentPrice)
		case "flat":
		default:
			t.Fatalf("unexpected direction %q", out.Direction)
		}
	}
}

func TestPredictFlatSeriesNeutral(t *testing.T) {
	q := quoteFrom(50, 50, 50, 50, 50)

	out := NewSeeded(1).Predict(Input{Symbol: "ITC", Sentiment: model.SentimentNeutral, Quote: q})

	assert.Equal(t, "flat", out.Direction)
	assert.Equal(t, 50.0, out.PredictedPrice)
	assert.Equal(t, 0.6, out.Confidence)
}
