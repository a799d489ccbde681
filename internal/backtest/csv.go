package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rxtech-lab/argo-strategy/internal/types"
)

// ReadCandlesCSV loads candles from a CSV file with the header
// time,open,high,low,close,volume (an optional trailing symbol column is
// accepted). Timestamps may be RFC3339 or unix seconds.
func ReadCandlesCSV(path string) ([]types.MarketData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open candle file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read candle file: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("candle file %s has no data rows", path)
	}

	candles := make([]types.MarketData, 0, len(records)-1)

	// Skip the header row.
	for i, record := range records[1:] {
		if len(record) < 6 {
			return nil, fmt.Errorf("row %d: expected at least 6 columns, got %d", i+2, len(record))
		}

		ts, err := parseTimestamp(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		values := make([]float64, 5)

		for j := 1; j <= 5; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid number %q: %w", i+2, record[j], err)
			}

			values[j-1] = v
		}

		candle := types.MarketData{
			Time:   ts,
			Symbol: "",
			Open:   values[0],
			High:   values[1],
			Low:    values[2],
			Close:  values[3],
			Volume: values[4],
		}

		if len(record) > 6 {
			candle.Symbol = record[6]
		}

		candles = append(candles, candle)
	}

	return candles, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}

	if unix, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("invalid timestamp %q (expected RFC3339 or unix seconds)", value)
}
