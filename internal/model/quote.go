package model

import "time"

type Quote struct {
	Symbol        string       `json:"symbol"`
	Price         float64      `json:"price"`
	PreviousClose float64      `json:"previous_close"`
	Change        float64      `json:"change"`
	ChangePercent float64      `json:"change_percent"`
	Volume        int64        `json:"volume"`
	Currency      string       `json:"currency"`
	Exchange      string       `json:"exchange"`
	History       []PricePoint `json:"history"`
	FetchedAt     time.Time    `json:"fetched_at"`
}

type PricePoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Closes returns the close series in chronological order.
func (q Quote) Closes() []float64 {
	closes := make([]float64, 0, len(q.History))
	for _, p := range q.History {
		closes = append(closes, p.Close)
	}
	return closes
}

type Prediction struct {
	ID             int64     `json:"id"`
	Symbol         string    `json:"symbol"`
	NewsHeadline   string    `json:"news_headline"`
	Sentiment      Sentiment `json:"sentiment"`
	CurrentPrice   float64   `json:"current_price"`
	PredictedPrice float64   `json:"predicted_price"`
	ChangePercent  float64   `json:"change_percent"`
	Direction      string    `json:"direction"`
	Confidence     float64   `json:"confidence"`
	SMAShort       float64   `json:"sma_short"`
	SMALong        float64   `json:"sma_long"`
	RSI            float64   `json:"rsi"`
	Volatility     float64   `json:"volatility"`
	Method         string    `json:"method"`
	CreatedAt      time.Time `json:"created_at"`
}
