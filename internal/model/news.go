package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// NewsItem is a single headline attributed to a ticker.
type NewsItem struct {
	Ticker   string
	Date     null.Time
	Headline string
	Polarity float64 // -1.0 ~ 1.0
}

// DailySentiment is the reduction of all NewsItems of one (ticker, day).
// A record only exists when at least one headline was seen that day.
type DailySentiment struct {
	Ticker       string
	Day          time.Time
	AvgSentiment float64
	MinSentiment float64
	MaxSentiment float64
	NewsCount    int
}

// DayKey identifies a (ticker, calendar day) pair.
type DayKey struct {
	Ticker string
	Day    time.Time
}
