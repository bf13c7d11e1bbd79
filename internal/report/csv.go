package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/guregu/null/v6"

	"SentimentPanel/internal/model"
)

// Output file names.
const (
	PanelSuffix      = "_processed.csv"
	CombinedPanel    = "price_indicators.csv"
	MergedDataset    = "final_merged_dataset.csv"
	CorrelationTable = "sentiment_correlations.csv"
)

var panelHeader = []string{
	"Date", "Open", "High", "Low", "Close", "Volume",
	"return", "MA20", "MA50", "volatility_20d", "RSI14", "MACD", "MACD_signal", "MACD_hist",
}

var mergedExtra = []string{"daily_return", "avg_sentiment", "min_sentiment", "max_sentiment", "news_count"}

var correlationHeader = []string{"ticker", "pearson_r", "p_value", "n"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatNull writes an empty cell for undefined values.
func formatNull(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return formatFloat(v.Float64)
}

func formatDate(t null.Time) string {
	if !t.Valid {
		return ""
	}
	if h, m, s := t.Time.Clock(); h == 0 && m == 0 && s == 0 && t.Time.Nanosecond() == 0 {
		return t.Time.Format(time.DateOnly)
	}
	return t.Time.Format(time.DateTime)
}

func panelRecord(r model.IndicatorRow) []string {
	return []string{
		formatDate(r.Date),
		formatNull(r.Open), formatNull(r.High), formatNull(r.Low), formatNull(r.Close), formatNull(r.Volume),
		formatNull(r.Return), formatNull(r.MA20), formatNull(r.MA50), formatNull(r.Volatility20d),
		formatNull(r.RSI14), formatNull(r.MACD), formatNull(r.MACDSignal), formatNull(r.MACDHist),
	}
}

// WritePanel writes the rows of one ticker without a ticker column.
func WritePanel(w io.Writer, panel *model.IndicatorPanel) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(panelHeader); err != nil {
		return err
	}
	for _, r := range panel.Rows {
		if err := cw.Write(panelRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCombinedPanel writes all panels with a leading ticker column.
func WriteCombinedPanel(w io.Writer, panels []*model.IndicatorPanel) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"ticker"}, panelHeader...)); err != nil {
		return err
	}
	for _, p := range panels {
		for _, r := range p.Rows {
			if err := cw.Write(append([]string{p.Ticker}, panelRecord(r)...)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMerged writes the price/sentiment join.
func WriteMerged(w io.Writer, records []model.MergedRecord) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{"ticker"}, panelHeader...), mergedExtra...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, m := range records {
		rec := append([]string{m.Ticker}, panelRecord(m.IndicatorRow)...)
		rec = append(rec,
			formatNull(m.DailyReturn()),
			formatFloat(m.AvgSentiment),
			formatNull(m.MinSentiment),
			formatNull(m.MaxSentiment),
			strconv.Itoa(m.NewsCount),
		)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCorrelations writes one row per scope in the given order.
func WriteCorrelations(w io.Writer, results []model.CorrelationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(correlationHeader); err != nil {
		return err
	}
	for _, c := range results {
		if err := cw.Write([]string{c.Scope, formatNull(c.PearsonR), formatNull(c.PValue), strconv.Itoa(c.N)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Writer writes the run artifacts into Dir.
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// write creates name in Dir through a temporary file so a failed run never
// leaves a truncated artifact behind.
func (w *Writer) write(name string, fn func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(w.Dir, name)
	tmp, err := os.CreateTemp(w.Dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if err := fn(tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return path, nil
}

// WritePanels writes one file per ticker plus the combined panel.
func (w *Writer) WritePanels(panels []*model.IndicatorPanel) ([]string, error) {
	paths := make([]string, 0, len(panels)+1)
	for _, p := range panels {
		path, err := w.write(p.Ticker+PanelSuffix, func(out io.Writer) error { return WritePanel(out, p) })
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	path, err := w.write(CombinedPanel, func(out io.Writer) error { return WriteCombinedPanel(out, panels) })
	if err != nil {
		return nil, err
	}
	return append(paths, path), nil
}

func (w *Writer) WriteMerged(records []model.MergedRecord) (string, error) {
	return w.write(MergedDataset, func(out io.Writer) error { return WriteMerged(out, records) })
}

func (w *Writer) WriteCorrelations(results []model.CorrelationResult) (string, error) {
	return w.write(CorrelationTable, func(out io.Writer) error { return WriteCorrelations(out, results) })
}
