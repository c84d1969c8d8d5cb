package chart

import (
	"encoding/json"
	"fmt"
	"strings"
)

type IndicatorType string

const (
	RSI        IndicatorType = "rsi"
	MACD       IndicatorType = "macd"
	Volume     IndicatorType = "volume"
	Stochastic IndicatorType = "stochastic"
)

// IndicatorTypes is the order panels are stacked in.
var IndicatorTypes = []IndicatorType{RSI, MACD, Volume, Stochastic}

func ParseIndicatorType(s string) (IndicatorType, error) {
	t := IndicatorType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range IndicatorTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown indicator %q", s)
}

// Selection is the set of panels to show. Iteration always follows
// IndicatorTypes, whatever order panels were toggled on.
type Selection struct {
	on map[IndicatorType]bool
}

func NewSelection(types ...IndicatorType) Selection {
	s := Selection{on: make(map[IndicatorType]bool, len(types))}
	for _, t := range types {
		s.on[t] = true
	}
	return s
}

// DefaultSelection shows RSI and MACD.
func DefaultSelection() Selection {
	return NewSelection(RSI, MACD)
}

// ParseSelection reads names such as ["rsi", "MACD"]; each element may
// itself be a comma separated list.
func ParseSelection(names ...string) (Selection, error) {
	s := NewSelection()
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			t, err := ParseIndicatorType(part)
			if err != nil {
				return Selection{}, err
			}
			s.on[t] = true
		}
	}
	return s, nil
}

// Toggle flips t and reports whether it is now selected.
func (s *Selection) Toggle(t IndicatorType) bool {
	if s.on == nil {
		s.on = make(map[IndicatorType]bool)
	}
	if s.on[t] {
		delete(s.on, t)
		return false
	}
	s.on[t] = true
	return true
}

func (s Selection) Has(t IndicatorType) bool {
	return s.on[t]
}

func (s Selection) Len() int {
	return len(s.on)
}

// Types returns the selected types in stacking order.
func (s Selection) Types() []IndicatorType {
	out := make([]IndicatorType, 0, len(s.on))
	for _, t := range IndicatorTypes {
		if s.on[t] {
			out = append(out, t)
		}
	}
	return out
}

func (s Selection) String() string {
	types := s.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ",")
}

func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Types())
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParseSelection(names...)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
