// Package chart assembles indicator panels for a price chart.
package chart

import (
	"github.com/rustyeddy/chartlab/market"
)

// Options controls how a panel is drawn.
type Options struct {
	Color     string `json:"color"`
	LineWidth int    `json:"lineWidth"`
	Height    int    `json:"height"`
	Visible   bool   `json:"visible"`
	Precision int    `json:"precision"`
}

func DefaultOptions() Options {
	return Options{
		Color:     "#2962FF",
		LineWidth: 2,
		Height:    150,
		Visible:   true,
		Precision: 2,
	}
}

// Panel is one indicator pane below the price chart. Signal and Histogram
// are only set on MACD panels. Guides are horizontal reference levels.
type Panel struct {
	Type      IndicatorType `json:"type"`
	Name      string        `json:"name"`
	Data      market.Series `json:"data"`
	Signal    market.Series `json:"signal,omitempty"`
	Histogram market.Series `json:"histogram,omitempty"`
	Guides    []float64     `json:"guides,omitempty"`
	Options   Options       `json:"options"`
}

// MultiPanel is a price chart plus its indicator panels.
type MultiPanel struct {
	Symbol     string          `json:"stockId"`
	Interval   market.Interval `json:"interval"`
	PriceData  []market.Candle `json:"priceData"`
	Indicators []Panel         `json:"indicators"`
}

// Panel returns the first panel of type t.
func (m *MultiPanel) Panel(t IndicatorType) (Panel, bool) {
	for _, p := range m.Indicators {
		if p.Type == t {
			return p, true
		}
	}
	return Panel{}, false
}

// Flatten lists every series in panel order. MACD contributes three:
// "<name>", "<name>/signal" and "<name>/histogram".
func (m *MultiPanel) Flatten() []market.NamedSeries {
	var out []market.NamedSeries
	for _, p := range m.Indicators {
		out = append(out, market.NamedSeries{Name: p.Name, Series: p.Data})
		if p.Type == MACD {
			out = append(out,
				market.NamedSeries{Name: p.Name + "/signal", Series: p.Signal},
				market.NamedSeries{Name: p.Name + "/histogram", Series: p.Histogram},
			)
		}
	}
	return out
}
