package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"SentimentPanel/internal/model"
)

var newsColumns = []string{"date", "stock", "headline"}

// ReadNewsFile loads headlines from a CSV file with date, stock and headline columns.
func ReadNewsFile(path string) ([]model.NewsItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open news file: %w", err)
	}
	defer f.Close()

	items, err := ReadNewsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// ReadNewsCSV parses headlines. Extra columns are ignored and unparsable dates
// are kept as invalid values. Polarity is left at zero for the scorer.
func ReadNewsCSV(r io.Reader) ([]model.NewsItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := locate(header, newsColumns)
	if err != nil {
		return nil, err
	}

	var items []model.NewsItem
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		items = append(items, model.NewsItem{
			Ticker:   cell(rec, cols["stock"]),
			Date:     ParseDate(cell(rec, cols["date"])),
			Headline: cell(rec, cols["headline"]),
		})
	}
	return items, nil
}
