package calculator

import (
	"errors"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"

	"SentimentPanel/internal/model"
)

// CalculateSMA computes the simple moving average of the last `period` prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	return stat.Mean(prices[len(prices)-period:], nil), nil
}

// RollingSMA returns the trailing simple moving average at every index.
// Indices before the window is full are null; partial windows are never averaged.
func RollingSMA(prices []float64, period int) ([]null.Float, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]null.Float, len(prices))
	for i := period - 1; i < len(prices); i++ {
		sma, err := CalculateSMA(prices[:i+1], period)
		if err != nil {
			return nil, err
		}
		out[i] = null.FloatFrom(sma)
	}
	return out, nil
}

// Closes extracts close prices. Bars are expected to carry a valid close.
func Closes(bars []model.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close.Float64
	}
	return closes
}
