package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorMonotonic(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(1, func() time.Time { return fixed })

	prev := g.New()
	for i := 0; i < 100; i++ {
		next := g.New()
		assert.Len(t, next, 26)
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestTimeRoundTrip(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(7, func() time.Time { return fixed })

	ts, err := Time(g.New())
	require.NoError(t, err)
	assert.True(t, fixed.Equal(ts), "got %v", ts)
}

func TestTimeInvalid(t *testing.T) {
	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}

func TestGeneratorZeroSeed(t *testing.T) {
	a := NewGenerator(0, nil).New()
	b := NewGenerator(0, nil).New()
	assert.NotEqual(t, a, b)
}
