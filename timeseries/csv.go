package timeseries

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn   string // Column name for dates (optional)
	PriceColumn  string // Column name for prices (default: "close")
	VolumeColumn string // Column name for volumes (optional)
	SymbolColumn string // Column name for symbol (optional, for filtering)
	SymbolFilter string // Value to filter by symbol column
	DateFormat   string // Date format (default: "2006-01-02")
	HasHeader    bool   // Whether CSV has a header row (default: true)
	Delimiter    rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		PriceColumn: "close",
		DateFormat:  "2006-01-02",
		HasHeader:   true,
		Delimiter:   ',',
	}
}

// LoadCSV loads a price series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a price series from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	priceIdx, dateIdx, volumeIdx, symbolIdx := -1, -1, -1, -1

	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}

		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case h == opts.PriceColumn || (opts.PriceColumn == "" && (h == "close" || h == "price" || h == "Close")):
				priceIdx = i
			case opts.DateColumn != "" && h == opts.DateColumn:
				dateIdx = i
			case h == "date" || h == "Date" || h == "ds" || h == "timestamp":
				if dateIdx == -1 {
					dateIdx = i
				}
			case opts.VolumeColumn != "" && h == opts.VolumeColumn:
				volumeIdx = i
			case h == "volume" || h == "Volume":
				if volumeIdx == -1 {
					volumeIdx = i
				}
			case opts.SymbolColumn != "" && h == opts.SymbolColumn:
				symbolIdx = i
			case h == "symbol" || h == "ticker":
				if symbolIdx == -1 && opts.SymbolColumn == "" {
					symbolIdx = i
				}
			}
		}

		if priceIdx == -1 {
			priceIdx = len(header) - 1
		}
	} else {
		dateIdx = 0
		priceIdx = 1
	}

	var prices, volumes []float64
	var timestamps []time.Time

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if opts.SymbolFilter != "" && symbolIdx >= 0 && symbolIdx < len(record) {
			sym := strings.TrimSpace(strings.Trim(record[symbolIdx], "\""))
			if sym != opts.SymbolFilter {
				continue
			}
		}

		if priceIdx < 0 || priceIdx >= len(record) {
			continue
		}
		valStr := strings.TrimSpace(strings.Trim(record[priceIdx], "\""))
		if valStr == "" || valStr == "NA" || valStr == "NaN" || valStr == "null" {
			continue
		}
		price, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			continue
		}
		prices = append(prices, price)

		if volumeIdx >= 0 && volumeIdx < len(record) {
			if vol, err := strconv.ParseFloat(strings.TrimSpace(record[volumeIdx]), 64); err == nil {
				volumes = append(volumes, vol)
			}
		}

		if dateIdx >= 0 && dateIdx < len(record) {
			dateStr := strings.TrimSpace(strings.Trim(record[dateIdx], "\""))
			formats := []string{
				opts.DateFormat,
				"2006-01-02",
				"2006-01-02T15:04:05",
				"2006/01/02",
				"01/02/2006",
			}
			var ts time.Time
			var perr error
			for _, f := range formats {
				ts, perr = time.Parse(f, dateStr)
				if perr == nil {
					break
				}
			}
			if perr == nil {
				timestamps = append(timestamps, ts)
			}
		}
	}

	if len(prices) == 0 {
		return nil, errors.New("no valid price data found in CSV")
	}

	series := New(prices)
	series.Symbol = opts.SymbolFilter
	if len(timestamps) == len(prices) {
		series.Timestamps = timestamps
	}
	if len(volumes) == len(prices) {
		series.Volumes = volumes
	}
	return series, nil
}

// LoadCSVSymbol loads a single symbol's price series from a long-format CSV
// with symbol, date, and close columns.
func LoadCSVSymbol(filename, symbol string) (*Series, error) {
	opts := DefaultCSVOptions()
	opts.SymbolFilter = symbol
	return LoadCSV(filename, opts)
}
