package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"SentimentPanel/internal/model"
)

var priceColumns = []string{"date", "open", "high", "low", "close", "volume"}

// CSVDirSource reads one <TICKER>.csv file per ticker from a directory.
type CSVDirSource struct {
	Dir string
}

func NewCSVDirSource(dir string) *CSVDirSource {
	return &CSVDirSource{Dir: dir}
}

func (s *CSVDirSource) Name() string { return "csv" }

// Tickers lists the upper-cased stems of the *.csv files in Dir.
func (s *CSVDirSource) Tickers(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read price dir: %w", err)
	}
	var tickers []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		tickers = append(tickers, strings.ToUpper(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))))
	}
	sort.Strings(tickers)
	return tickers, nil
}

func (s *CSVDirSource) path(ticker string) (string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return "", fmt.Errorf("read price dir: %w", err)
	}
	for _, e := range entries {
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".csv") && strings.EqualFold(stem, ticker) {
			return filepath.Join(s.Dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no price file for %s in %s", ticker, s.Dir)
}

func (s *CSVDirSource) Bars(_ context.Context, ticker string) ([]model.PriceBar, error) {
	path, err := s.path(ticker)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	bars, err := ReadPriceCSV(f, strings.ToUpper(ticker))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

// ReadPriceCSV parses a price table with Date, Open, High, Low, Close and Volume
// columns located by header name. Bad cells become invalid values.
func ReadPriceCSV(r io.Reader, ticker string) ([]model.PriceBar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := locate(header, priceColumns)
	if err != nil {
		return nil, err
	}

	var bars []model.PriceBar
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		bars = append(bars, model.PriceBar{
			Ticker: ticker,
			Date:   ParseDate(cell(rec, cols["date"])),
			Open:   parseFloat(cell(rec, cols["open"])),
			High:   parseFloat(cell(rec, cols["high"])),
			Low:    parseFloat(cell(rec, cols["low"])),
			Close:  parseFloat(cell(rec, cols["close"])),
			Volume: parseFloat(cell(rec, cols["volume"])),
		})
	}
	return bars, nil
}

// locate maps each wanted column name to its index in header, case-insensitively.
func locate(header []string, want []string) (map[string]int, error) {
	cols := make(map[string]int, len(want))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	var missing []string
	for _, w := range want {
		if _, ok := cols[w]; !ok {
			missing = append(missing, w)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func cell(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
