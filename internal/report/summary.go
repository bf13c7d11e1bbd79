package report

import (
	"fmt"
	"strings"

	"SentimentPanel/internal/model"
)

// FormatGlobal renders the pooled correlation line printed at the end of a run.
func FormatGlobal(c model.CorrelationResult) string {
	if !c.Defined() {
		return "Not enough data for global Pearson correlation."
	}
	return fmt.Sprintf("Global Pearson r = %.4f, p=%.3g", c.PearsonR.Float64, c.PValue.Float64)
}

// FormatSummary formats a completed run for the log.
func FormatSummary(s *model.RunSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("SentimentPanel run | %s (%s)\n", s.StartedAt.Format("2006-01-02 15:04:05"), s.Duration.Round(1e6)))
	b.WriteString(fmt.Sprintf("source: %s | indicators: %s | sentiment: %s\n", s.Source, s.Backend, s.Strategy))
	b.WriteString(fmt.Sprintf("tickers: %d | bars: %d | headlines: %d | daily records: %d | merged rows: %d\n",
		s.Tickers, s.Bars, s.Headlines, s.DailyRecords, s.MergedRows))

	var defined []string
	for _, c := range s.Correlations {
		if c.Scope == model.GlobalScope || !c.Defined() {
			continue
		}
		defined = append(defined, fmt.Sprintf("  %s: r=%+.4f p=%.3g n=%d", c.Scope, c.PearsonR.Float64, c.PValue.Float64, c.N))
	}
	if len(defined) > 0 {
		b.WriteString("per-ticker correlations:\n")
		b.WriteString(strings.Join(defined, "\n"))
		b.WriteString("\n")
	}

	global, _ := s.Global()
	b.WriteString(FormatGlobal(global))
	return b.String()
}
