package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CandleSet is a run of candles for one symbol at one interval, oldest first.
type CandleSet struct {
	Symbol   string   `json:"stockId"`
	Interval Interval `json:"interval"`
	Source   string   `json:"-"`
	Candles  []Candle `json:"candles"`
}

// IngestStats counts the rows a CSV load dropped.
type IngestStats struct {
	Rows       int
	Duplicates int
	OutOfOrder int
	BadLines   int
}

// CSVHeader is the canonical candle CSV header.
var CSVHeader = []string{"time", "open", "high", "low", "close", "volume"}

// LoadCandleSet reads a candle CSV file.
func LoadCandleSet(path, symbol string, iv Interval) (*CandleSet, IngestStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, IngestStats{}, err
	}
	defer f.Close()

	candles, stats, err := ReadCandlesCSV(f)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}
	return &CandleSet{
		Symbol:   symbol,
		Interval: iv,
		Source:   path,
		Candles:  candles,
	}, stats, nil
}

// ReadCandlesCSV reads rows of
//
//	time,open,high,low,close[,volume]
//
// A single header row is allowed and empty or short rows are skipped.
// Rows whose timestamp is not after the previous kept row are dropped
// (keep-first policy for duplicates). Unparsable numbers are errors.
func ReadCandlesCSV(r io.Reader) ([]Candle, IngestStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out      []Candle
		stats    IngestStats
		sawFirst bool
		prev     int64
		havePrev bool
	)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, err
		}
		if len(row) == 0 {
			continue
		}

		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		stats.Rows++

		c, ok, err := parseCandleRow(row)
		if err != nil {
			return nil, stats, fmt.Errorf("row %d: %w", stats.Rows, err)
		}
		if !ok {
			stats.BadLines++
			continue
		}

		if havePrev && c.Timestamp <= prev {
			if c.Timestamp == prev {
				stats.Duplicates++
			} else {
				stats.OutOfOrder++
			}
			continue
		}
		prev = c.Timestamp
		havePrev = true
		out = append(out, c)
	}
	return out, stats, nil
}

func parseCandleRow(row []string) (Candle, bool, error) {
	if len(row) < 5 || strings.TrimSpace(row[0]) == "" {
		return Candle{}, false, nil
	}

	ts, err := parseTimestamp(row[0])
	if err != nil {
		return Candle{}, false, err
	}

	var prices [4]float64
	for i := range prices {
		if prices[i], err = parsePrice(row[i+1]); err != nil {
			return Candle{}, false, err
		}
	}

	var vol int64
	if len(row) > 5 {
		if vol, err = parseVolume(row[5]); err != nil {
			return Candle{}, false, err
		}
	}

	return Candle{
		Timestamp: ts,
		Open:      prices[0],
		High:      prices[1],
		Low:       prices[2],
		Close:     prices[3],
		Volume:    vol,
	}, true, nil
}

// WriteCandlesCSV writes candles in the canonical format with epoch
// millisecond timestamps.
func WriteCandlesCSV(w io.Writer, candles []Candle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, c := range candles {
		err := cw.Write([]string{
			strconv.FormatInt(c.Timestamp, 10),
			f(c.Open),
			f(c.High),
			f(c.Low),
			f(c.Close),
			strconv.FormatInt(c.Volume, 10),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
