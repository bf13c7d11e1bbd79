package collector

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"SentimentPanel/internal/model"
)

// Source defines the interface for loading daily price bars.
type Source interface {
	Name() string
	Tickers(ctx context.Context) ([]string, error)
	Bars(ctx context.Context, ticker string) ([]model.PriceBar, error)
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats found in price and news files.
// Unparsable input yields an invalid value.
func ParseDate(s string) null.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return null.TimeFrom(t)
		}
	}
	return null.Time{}
}

// parseFloat yields an invalid value for empty or non-numeric cells.
func parseFloat(s string) null.Float {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Float{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float{}
	}
	return null.FloatFrom(v)
}
