package market

import (
	"fmt"
	"strings"
	"time"
)

// Interval is the sampling period of a candle series.
type Interval string

const (
	Minute Interval = "minute"
	Hour   Interval = "hour"
	Day    Interval = "day"
	Week   Interval = "week"
	Month  Interval = "month"
)

// Intervals lists every supported interval, shortest first.
var Intervals = []Interval{Minute, Hour, Day, Week, Month}

// ParseInterval accepts the lowercase names above in any case, plus the
// short forms M1, H1, D1, W1 and MN1.
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minute", "m1":
		return Minute, nil
	case "hour", "h1":
		return Hour, nil
	case "day", "d1", "d":
		return Day, nil
	case "week", "w1", "w":
		return Week, nil
	case "month", "mn1":
		return Month, nil
	default:
		return "", fmt.Errorf("unsupported interval: %q", s)
	}
}

// Duration returns the nominal length of one candle. Month is 30 days.
func (iv Interval) Duration() time.Duration {
	switch iv {
	case Minute:
		return time.Minute
	case Hour:
		return time.Hour
	case Day:
		return 24 * time.Hour
	case Week:
		return 7 * 24 * time.Hour
	case Month:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Short returns the compact timeframe label (M1, H1, D1, W1, MN1).
func (iv Interval) Short() string {
	switch iv {
	case Minute:
		return "M1"
	case Hour:
		return "H1"
	case Day:
		return "D1"
	case Week:
		return "W1"
	case Month:
		return "MN1"
	default:
		return ""
	}
}

func (iv Interval) Valid() bool {
	return iv.Duration() > 0
}

func (iv Interval) String() string {
	return string(iv)
}
