package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/rustyeddy/chartlab/market"
)

// WriteSeriesCSV writes one row per distinct timestamp across all series,
// oldest first. The first column is epoch milliseconds; a series without a
// point at that timestamp leaves its cell empty.
func WriteSeriesCSV(w io.Writer, names []string, series ...market.Series) error {
	if len(names) != len(series) {
		return fmt.Errorf("got %d names for %d series", len(names), len(series))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}

	cells := make([]map[int64]float64, len(series))
	seen := map[int64]bool{}
	var stamps []int64
	for i, s := range series {
		cells[i] = make(map[int64]float64, len(s))
		for _, p := range s {
			cells[i][p.Timestamp] = p.Value
			if !seen[p.Timestamp] {
				seen[p.Timestamp] = true
				stamps = append(stamps, p.Timestamp)
			}
		}
	}
	sort.Slice(stamps, func(a, b int) bool { return stamps[a] < stamps[b] })

	row := make([]string, len(series)+1)
	for _, ts := range stamps {
		row[0] = strconv.FormatInt(ts, 10)
		for i := range series {
			row[i+1] = ""
			if v, ok := cells[i][ts]; ok {
				row[i+1] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteNamedCSV is WriteSeriesCSV over labelled series.
func WriteNamedCSV(w io.Writer, series []market.NamedSeries) error {
	names := make([]string, len(series))
	values := make([]market.Series, len(series))
	for i, ns := range series {
		names[i] = ns.Name
		values[i] = ns.Series
	}
	return WriteSeriesCSV(w, names, values...)
}
