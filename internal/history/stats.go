package history

import (
	"fmt"
	"math"
	"time"
)

// Stats summarises a series.
type Stats struct {
	Mean    float64
	Min     float64
	Max     float64
	StdDev  float64
	Count   int
	Current float64
}

// Stats computes mean, extremes and population standard deviation.
// An empty series gives the zero Stats.
func (s *Series) Stats() Stats {
	if s.count == 0 {
		return Stats{}
	}

	st := Stats{
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
		Count: s.count,
	}

	var sum float64
	for i := 0; i < s.count; i++ {
		v := s.at(i).Value
		sum += v
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
	}
	st.Mean = sum / float64(s.count)
	st.Current = s.at(s.count - 1).Value

	var variance float64
	for i := 0; i < s.count; i++ {
		d := s.at(i).Value - st.Mean
		variance += d * d
	}
	st.StdDev = math.Sqrt(variance / float64(s.count))

	return st
}

// TimeContext describes how much history the stats cover,
// e.g. "120 samples over 2m 5s".
func (st Stats) TimeContext(oldest, newest time.Time) string {
	switch st.Count {
	case 0:
		return ""
	case 1:
		return "(now)"
	}
	return fmt.Sprintf("%d samples over %s", st.Count, formatSpan(newest.Sub(oldest)))
}

// SeriesContext is TimeContext over the series' own first and last samples.
func (s *Series) SeriesContext() string {
	first, _ := s.First()
	last, _ := s.Last()
	return s.Stats().TimeContext(first.Time, last.Time)
}

func formatSpan(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}

	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		m, s := secs/60, secs%60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		h, m := secs/3600, (secs%3600)/60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
