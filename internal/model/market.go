package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// PriceBar represents a single daily bar for one ticker.
type PriceBar struct {
	Ticker string
	Date   null.Time
	Open   null.Float
	High   null.Float
	Low    null.Float
	Close  null.Float
	Volume null.Float
}

// Day returns the bar date truncated to its calendar day.
func (b PriceBar) Day() time.Time {
	return CalendarDay(b.Date.Time)
}

// PriceSeries holds the raw daily bars of a single ticker, ascending by date.
type PriceSeries struct {
	Ticker string
	Bars   []PriceBar
}

// CalendarDay drops time-of-day and the zone offset, keeping the wall-clock date.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
