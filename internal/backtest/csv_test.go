package backtest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type CSVTestSuite struct {
	suite.Suite
}

func TestCSVSuite(t *testing.T) {
	suite.Run(t, new(CSVTestSuite))
}

func (suite *CSVTestSuite) writeFile(content string) string {
	path := filepath.Join(suite.T().TempDir(), "candles.csv")
	suite.NoError(os.WriteFile(path, []byte(content), 0644))

	return path
}

func (suite *CSVTestSuite) TestReadCandlesRFC3339() {
	path := suite.writeFile(`time,open,high,low,close,volume
2024-01-01T00:00:00Z,100,105,99,104,1200
2024-01-01T01:00:00Z,104,106,103,105,800
`)

	candles, err := ReadCandlesCSV(path)
	suite.NoError(err)
	suite.Len(candles, 2)
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), candles[0].Time)
	suite.Equal(100.0, candles[0].Open)
	suite.Equal(105.0, candles[0].High)
	suite.Equal(99.0, candles[0].Low)
	suite.Equal(104.0, candles[0].Close)
	suite.Equal(1200.0, candles[0].Volume)
}

func (suite *CSVTestSuite) TestReadCandlesUnixSecondsAndSymbol() {
	path := suite.writeFile(`time,open,high,low,close,volume,symbol
1704067200,100,105,99,104,1200,BTCUSDT
`)

	candles, err := ReadCandlesCSV(path)
	suite.NoError(err)
	suite.Len(candles, 1)
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), candles[0].Time)
	suite.Equal("BTCUSDT", candles[0].Symbol)
}

func (suite *CSVTestSuite) TestReadCandlesMissingFile() {
	_, err := ReadCandlesCSV(filepath.Join(suite.T().TempDir(), "absent.csv"))
	suite.Error(err)
}

func (suite *CSVTestSuite) TestReadCandlesHeaderOnly() {
	path := suite.writeFile("time,open,high,low,close,volume\n")

	_, err := ReadCandlesCSV(path)
	suite.Error(err)
}

func (suite *CSVTestSuite) TestReadCandlesBadRows() {
	tests := []struct {
		name string
		row  string
	}{
		{name: "too few columns", row: "2024-01-01T00:00:00Z,100,105"},
		{name: "bad timestamp", row: "yesterday,100,105,99,104,1200"},
		{name: "bad number", row: "2024-01-01T00:00:00Z,100,abc,99,104,1200"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			path := suite.writeFile("time,open,high,low,close,volume\n" + tc.row + "\n")

			_, err := ReadCandlesCSV(path)
			suite.Error(err)
		})
	}
}
