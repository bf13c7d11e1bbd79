package model

import "github.com/guregu/null/v6"

// GlobalScope names the pooled correlation row.
const GlobalScope = "global"

// MergedRecord joins an IndicatorRow with the sentiment of its day.
// Days without news carry AvgSentiment 0 and NewsCount 0; Min/Max stay null.
type MergedRecord struct {
	IndicatorRow

	AvgSentiment float64
	MinSentiment null.Float
	MaxSentiment null.Float
	NewsCount    int
}

// DailyReturn mirrors Return under the name used in the merged output.
func (m MergedRecord) DailyReturn() null.Float {
	return m.Return
}

// CorrelationResult reports the sentiment/return correlation of one scope.
// PearsonR and PValue are null when fewer than the minimum samples were available.
type CorrelationResult struct {
	Scope    string
	PearsonR null.Float
	PValue   null.Float
	N        int
}

// Defined reports whether a coefficient was computed for this scope.
func (c CorrelationResult) Defined() bool {
	return c.PearsonR.Valid
}
