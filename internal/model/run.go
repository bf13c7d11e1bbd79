package model

import "time"

// RunSummary describes one completed pipeline run.
type RunSummary struct {
	StartedAt    time.Time
	Duration     time.Duration
	Source       string
	Backend      string
	Strategy     string
	Tickers      int
	Bars         int
	Headlines    int
	DailyRecords int
	MergedRows   int
	Correlations []CorrelationResult
	Outputs      []string
}

// Global returns the pooled correlation of the run, if any.
func (s *RunSummary) Global() (CorrelationResult, bool) {
	for _, c := range s.Correlations {
		if c.Scope == GlobalScope {
			return c, true
		}
	}
	return CorrelationResult{Scope: GlobalScope}, false
}
