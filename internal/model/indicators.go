package model

import "github.com/guregu/null/v6"

// IndicatorRow is a PriceBar extended with the derived technical columns.
// A column is invalid (null) where its warm-up window is not yet full.
type IndicatorRow struct {
	PriceBar

	Return        null.Float
	MA20          null.Float
	MA50          null.Float
	Volatility20d null.Float
	RSI14         null.Float
	MACD          null.Float
	MACDSignal    null.Float
	MACDHist      null.Float
}

// IndicatorPanel holds the computed rows of one ticker, ascending by date.
type IndicatorPanel struct {
	Ticker string
	Rows   []IndicatorRow
}
