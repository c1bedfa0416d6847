package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

type Fetcher interface {
	Fetch(ctx context.Context, symbol string) (*model.Quote, error)
}

// Client reads daily candles from a chart endpoint.
type Client struct {
	baseURL    string
	suffix     string
	httpClient *http.Client
}

// NewClient builds a chart client. suffix is appended to bare symbols, for
// example ".NS" to address NSE listings.
func NewClient(baseURL, suffix string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		suffix:     suffix,
		httpClient: httpClient,
	}
}

// NormalizeSymbol uppercases and trims a user-supplied symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (c *Client) upstreamSymbol(symbol string) string {
	if c.suffix == "" || strings.ContainsAny(symbol, ".^=") {
		return symbol
	}
	return symbol + c.suffix
}

func (c *Client) Fetch(ctx context.Context, symbol string) (*model.Quote, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, model.ErrInvalidSymbol
	}

	endpoint := fmt.Sprintf("%s/%s?interval=1d&range=1mo", c.baseURL, url.PathEscape(c.upstreamSymbol(symbol)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; MarketPulse/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("quote decode (status %d): %w", resp.StatusCode, err)
	}

	if raw.Chart.Error != nil && raw.Chart.Error.Description != "" {
		return nil, fmt.Errorf("%w: %s", model.ErrNoQuoteData, raw.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote upstream returned %s", resp.Status)
	}
	if len(raw.Chart.Result) == 0 {
		return nil, model.ErrNoQuoteData
	}

	q := toQuote(symbol, raw.Chart.Result[0])
	q.FetchedAt = time.Now().UTC()
	return q, nil
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		RegularMarketPrice  *float64 `json:"regularMarketPrice"`
		PreviousClose       *float64 `json:"previousClose"`
		ChartPreviousClose  *float64 `json:"chartPreviousClose"`
		RegularMarketVolume *int64   `json:"regularMarketVolume"`
		Currency            string   `json:"currency"`
		ExchangeName        string   `json:"exchangeName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// toQuote maps the chart payload. Candles without a close are skipped; the
// price falls back to the last close when the meta block lacks one.
func toQuote(symbol string, r chartResult) *model.Quote {
	q := &model.Quote{
		Symbol:   symbol,
		Currency: r.Meta.Currency,
		Exchange: r.Meta.ExchangeName,
		History:  []model.PricePoint{},
	}

	if len(r.Indicators.Quote) > 0 {
		ind := r.Indicators.Quote[0]
		for i, ts := range r.Timestamp {
			closeVal, ok := at(ind.Close, i)
			if !ok {
				continue
			}
			p := model.PricePoint{Time: time.Unix(ts, 0).UTC(), Close: closeVal}
			p.Open, _ = at(ind.Open, i)
			p.High, _ = at(ind.High, i)
			p.Low, _ = at(ind.Low, i)
			if i < len(ind.Volume) && ind.Volume[i] != nil {
				p.Volume = *ind.Volume[i]
			}
			q.History = append(q.History, p)
		}
	}

	switch {
	case r.Meta.RegularMarketPrice != nil:
		q.Price = *r.Meta.RegularMarketPrice
	case len(q.History) > 0:
		q.Price = q.History[len(q.History)-1].Close
	}

	switch {
	case r.Meta.PreviousClose != nil:
		q.PreviousClose = *r.Meta.PreviousClose
	case r.Meta.ChartPreviousClose != nil:
		q.PreviousClose = *r.Meta.ChartPreviousClose
	case len(q.History) > 1:
		q.PreviousClose = q.History[len(q.History)-2].Close
	}

	if r.Meta.RegularMarketVolume != nil {
		q.Volume = *r.Meta.RegularMarketVolume
	} else if len(q.History) > 0 {
		q.Volume = q.History[len(q.History)-1].Volume
	}

	if q.PreviousClose != 0 {
		q.Change = q.Price - q.PreviousClose
		q.ChangePercent = q.Change / q.PreviousClose * 100
	}

	return q
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}
