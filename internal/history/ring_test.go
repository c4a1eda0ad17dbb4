package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(sec int) time.Time {
	return t0.Add(time.Duration(sec) * time.Second)
}

func TestNewSeries(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		expected int
	}{
		{"default capacity", 0, DefaultCapacity},
		{"negative capacity", -1, DefaultCapacity},
		{"custom capacity", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSeries(tt.capacity)
			assert.Equal(t, tt.expected, s.Cap())
			assert.Zero(t, s.Len())
		})
	}
}

func TestSeriesPushAndOrder(t *testing.T) {
	s := NewSeries(10)
	for i := 0; i < 5; i++ {
		s.Add(at(i), float64(i*10))
	}

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []float64{0, 10, 20, 30, 40}, s.Values())

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, Sample{Time: at(4), Value: 40}, last)

	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, at(0), first.Time)
}

func TestSeriesOverflow(t *testing.T) {
	s := NewSeries(5)
	for i := 0; i < 8; i++ {
		s.Add(at(i), float64(i))
	}

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []float64{3, 4, 5, 6, 7}, s.Values())

	samples := s.Samples()
	require.Len(t, samples, 5)
	assert.Equal(t, at(3), samples[0].Time)
	assert.Equal(t, at(7), samples[4].Time)
}

func TestSeriesEmpty(t *testing.T) {
	s := NewSeries(3)
	_, ok := s.Last()
	assert.False(t, ok)
	_, ok = s.First()
	assert.False(t, ok)
	assert.Empty(t, s.Values())
	assert.Zero(t, s.TrimBefore(at(100)))
}

func TestSeriesTrimBefore(t *testing.T) {
	s := NewSeries(5)
	for i := 0; i < 7; i++ {
		s.Add(at(i*10), float64(i))
	}
	// holds samples at 20..60s after wrap-around

	removed := s.TrimBefore(at(35))
	assert.Equal(t, 2, removed)
	assert.Equal(t, []float64{4, 5, 6}, s.Values())

	// pushing after a trim keeps chronological order
	s.Add(at(70), 7)
	s.Add(at(80), 8)
	s.Add(at(90), 9)
	assert.Equal(t, []float64{5, 6, 7, 8, 9}, s.Values())

	assert.Equal(t, 5, s.TrimBefore(at(1000)))
	assert.Zero(t, s.Len())
}
