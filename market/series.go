package market

// Point is one indicator output sample.
type Point struct {
	Timestamp int64   `json:"time"`
	Value     float64 `json:"value"`
}

// Series is an ordered run of points, oldest first. A zero-length Series is
// the defined result for "not enough data".
type Series []Point

// Values returns the point values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Last returns the most recent point.
func (s Series) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// NamedSeries labels a Series, e.g. "MACD (12,26,9)/signal".
type NamedSeries struct {
	Name   string `json:"name"`
	Series Series `json:"series"`
}
