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

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource implements Source using Yahoo Finance public API.
type YahooSource struct {
	Client    *http.Client
	BaseURL   string
	Symbols   []string
	Days      int
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooSource creates a Yahoo Finance source for the given symbols.
func NewYahooSource(symbols []string, days int, proxyURL string) *YahooSource {
	return &YahooSource{
		Client:  newHTTPClient(proxyURL),
		BaseURL: yahooBaseURL,
		Symbols: symbols,
		Days:    days,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func (f *YahooSource) Name() string { return "yahoo" }

func (f *YahooSource) Tickers(_ context.Context) ([]string, error) {
	tickers := make([]string, 0, len(f.Symbols))
	for _, s := range f.Symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			tickers = append(tickers, s)
		}
	}
	sort.Strings(tickers)
	return tickers, nil
}

func (f *YahooSource) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(values []*float64, i int) null.Float {
	if i >= len(values) {
		return null.Float{}
	}
	return null.FloatFromPtr(values[i])
}

// yahooRange picks the smallest chart range covering days daily bars.
func yahooRange(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	}
	return "5y"
}

func (f *YahooSource) Bars(ctx context.Context, ticker string) ([]model.PriceBar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(ticker)), yahooRange(f.Days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.PriceBar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if !c.Valid {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.PriceBar{
			Ticker: ticker,
			Date:   null.TimeFrom(model.CalendarDay(time.Unix(ts, 0).UTC())),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Time.Before(bars[j].Date.Time) })
	if f.Days > 0 && len(bars) > f.Days {
		bars = bars[len(bars)-f.Days:]
	}
	return bars, nil
}
