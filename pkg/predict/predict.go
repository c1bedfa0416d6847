// Package predict produces an illustrative next-day price signal from a few
// technical indicators, the news sentiment and injected noise. It is a demo
// heuristic, not a forecasting model.
package predict

import (
	"math"
	"math/rand"
	"sync"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

const (
	Method = "heuristic"

	shortWindow = 5
	longWindow  = 20
	rsiPeriod   = 14

	sentimentWeight = 0.02
	trendWeight     = 0.01
	rsiWeight       = 0.01
	noiseScale      = 1.0
	flatThreshold   = 0.001
)

type Input struct {
	Symbol       string
	NewsHeadline string
	Sentiment    model.Sentiment
	Quote        *model.Quote
}

// Predictor is safe for concurrent use. The random source decides the noise
// term, so a fixed seed gives reproducible output.
type Predictor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func New(rng *rand.Rand) *Predictor {
	return &Predictor{rng: rng}
}

func NewSeeded(seed int64) *Predictor {
	return New(rand.New(rand.NewSource(seed)))
}

func (p *Predictor) Predict(in Input) model.Prediction {
	closes := in.Quote.Closes()
	current := in.Quote.Price
	if current == 0 && len(closes) > 0 {
		current = closes[len(closes)-1]
	}

	smaShort := SMA(closes, shortWindow)
	smaLong := SMA(closes, longWindow)
	rsi := RSI(closes, rsiPeriod)
	vol := Volatility(closes)

	change := 0.0
	agree := 0

	switch in.Sentiment {
	case model.SentimentPositive:
		change += sentimentWeight
	case model.SentimentNegative:
		change -= sentimentWeight
	}

	trend := 0.0
	if smaLong > 0 {
		if smaShort > smaLong {
			trend = trendWeight
		} else if smaShort < smaLong {
			trend = -trendWeight
		}
	}
	change += trend

	switch {
	case rsi > 70:
		change -= rsiWeight
	case rsi < 30:
		change += rsiWeight
	}

	if trend != 0 && sign(trend) == sentimentSign(in.Sentiment) {
		agree++
	}

	p.mu.Lock()
	noise := (p.rng.Float64()*2 - 1) * vol * noiseScale
	p.mu.Unlock()
	change += noise

	direction := "flat"
	switch {
	case change > flatThreshold:
		direction = "up"
	case change < -flatThreshold:
		direction = "down"
	}

	confidence := 0.6 - vol*2 + 0.1*float64(agree)
	confidence = math.Max(0.3, math.Min(0.9, confidence))

	return model.Prediction{
		Symbol:         in.Symbol,
		NewsHeadline:   in.NewsHeadline,
		Sentiment:      in.Sentiment,
		CurrentPrice:   round2(current),
		PredictedPrice: round2(current * (1 + change)),
		ChangePercent:  round2(change * 100),
		Direction:      direction,
		Confidence:     round2(confidence),
		SMAShort:       round2(smaShort),
		SMALong:        round2(smaLong),
		RSI:            round2(rsi),
		Volatility:     math.Round(vol*10000) / 10000,
		Method:         Method,
	}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func sentimentSign(s model.Sentiment) int {
	switch s {
	case model.SentimentPositive:
		return 1
	case model.SentimentNegative:
		return -1
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
