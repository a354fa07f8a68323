package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElapsedMinutes(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	got, err := ElapsedMinutes(start, start.Add(90*time.Second))
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got, 1e-9)

	got, err = ElapsedMinutes(start, start)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestElapsedMinutesClockSkew(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_, err := ElapsedMinutes(start, start.Add(-time.Millisecond))
	assert.ErrorIs(t, err, ErrClockSkew)
}

func TestWPMZeroElapsed(t *testing.T) {
	assert.Equal(t, 0.0, WPM(10, 0))
	assert.Equal(t, 0.0, WPM(10, -1))
}

func TestWPMLinearInTokens(t *testing.T) {
	base := WPM(10, 0.5)
	assert.InDelta(t, 20.0, base, 1e-9)
	for k := 1; k <= 5; k++ {
		assert.InDelta(t, base*float64(k), WPM(10*k, 0.5), 1e-9)
	}
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 100.0, Accuracy(40, 0))
	assert.InDelta(t, 90.0, Accuracy(40, 4), 1e-9)
	assert.Equal(t, 100.0, Accuracy(0, 0))
}

func TestWrongTyped(t *testing.T) {
	assert.Equal(t, 0, WrongTyped(11, 11))
	assert.Equal(t, 3, WrongTyped(14, 11))
	assert.Equal(t, 0, WrongTyped(5, 11))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 3, WordCount("the   cat sat "))
}

func TestCompute(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	res, err := Compute(3, 12, 11, start, start.Add(6*time.Second))
	require.NoError(t, err)
	assert.InDelta(t, 30.0, res.WPM, 1e-9)
	assert.InDelta(t, 11.0/12.0*100, res.Accuracy, 1e-9)
	assert.Equal(t, 6*time.Second, res.Elapsed)
	assert.InDelta(t, 0.1, res.Minutes(), 1e-9)
	assert.InDelta(t, 6.0, res.Seconds(), 1e-9)

	_, err = Compute(3, 12, 11, start, start.Add(-time.Second))
	assert.ErrorIs(t, err, ErrClockSkew)
}
