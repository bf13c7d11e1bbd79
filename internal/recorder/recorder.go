package recorder

import (
	"time"

	"SentimentPanel/internal/model"
)

// RunRecord is a stored run summary as read back from history.
type RunRecord struct {
	ID        int64
	StartedAt time.Time
	Duration  time.Duration
	Source    string
	Backend   string
	Strategy  string
	Tickers   int
	Bars      int
	Headlines int
	Global    model.CorrelationResult
}

// Recorder persists the history of pipeline runs for analysis.
type Recorder interface {
	RecordRun(run *model.RunSummary) error
	RecentRuns(limit int) ([]RunRecord, error)
	Close() error
}

// LastRun returns the most recent recorded run. ok is false when the history is empty.
func LastRun(r Recorder) (run RunRecord, ok bool, err error) {
	runs, err := r.RecentRuns(1)
	if err != nil {
		return RunRecord{}, false, err
	}
	if len(runs) == 0 {
		return RunRecord{}, false, nil
	}
	return runs[0], true, nil
}
