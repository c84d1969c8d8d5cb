package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSelection(t *testing.T) {
	s := DefaultSelection()
	assert.Equal(t, []IndicatorType{RSI, MACD}, s.Types())
	assert.Equal(t, "rsi,macd", s.String())
}

func TestSelectionToggle(t *testing.T) {
	s := DefaultSelection()

	assert.True(t, s.Toggle(Stochastic))
	assert.True(t, s.Toggle(Volume))
	assert.False(t, s.Toggle(RSI))

	assert.Equal(t, []IndicatorType{MACD, Volume, Stochastic}, s.Types())
	assert.False(t, s.Has(RSI))

	var zero Selection
	assert.True(t, zero.Toggle(MACD))
	assert.Equal(t, 1, zero.Len())
}

func TestParseSelection(t *testing.T) {
	s, err := ParseSelection("stochastic, RSI", "volume")
	require.NoError(t, err)
	assert.Equal(t, []IndicatorType{RSI, Volume, Stochastic}, s.Types())

	empty, err := ParseSelection("")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	_, err = ParseSelection("rsi,bollinger")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bollinger")
}

func TestSelectionJSON(t *testing.T) {
	data, err := json.Marshal(NewSelection(MACD, RSI))
	require.NoError(t, err)
	assert.JSONEq(t, `["rsi","macd"]`, string(data))

	var s Selection
	require.NoError(t, json.Unmarshal([]byte(`["volume"]`), &s))
	assert.True(t, s.Has(Volume))

	assert.Error(t, json.Unmarshal([]byte(`["nope"]`), &s))
}
