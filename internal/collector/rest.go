package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"SentimentPanel/internal/model"
)

// RESTSource implements Source against a market-data service exposing
// /api/v1/bars/daily?symbol=&limit= as a JSON array of bars.
type RESTSource struct {
	BaseURL string
	APIKey  string
	Symbols []string
	Days    int
	Client  *http.Client
}

// NewRESTSource creates a REST bar source with optional proxy support.
func NewRESTSource(baseURL, apiKey string, symbols []string, days int, proxyURL string) *RESTSource {
	return &RESTSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Symbols: symbols,
		Days:    days,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *RESTSource) Name() string { return "rest" }

func (f *RESTSource) Tickers(_ context.Context) ([]string, error) {
	tickers := make([]string, 0, len(f.Symbols))
	for _, s := range f.Symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			tickers = append(tickers, s)
		}
	}
	sort.Strings(tickers)
	return tickers, nil
}

// restBar is the expected JSON shape from the bar service.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

func (f *RESTSource) Bars(ctx context.Context, ticker string) ([]model.PriceBar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(ticker), f.Days)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	var raw []restBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.PriceBar, len(raw))
	for i, rb := range raw {
		bars[i] = model.PriceBar{
			Ticker: ticker,
			Date:   null.TimeFrom(model.CalendarDay(time.Unix(rb.Timestamp, 0).UTC())),
			Open:   null.FloatFromPtr(rb.Open),
			High:   null.FloatFromPtr(rb.High),
			Low:    null.FloatFromPtr(rb.Low),
			Close:  null.FloatFromPtr(rb.Close),
			Volume: null.FloatFromPtr(rb.Volume),
		}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Time.Before(bars[j].Date.Time) })
	return bars, nil
}
