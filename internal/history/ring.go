package history

import "time"

// DefaultCapacity is five minutes of samples at the active polling rate.
const DefaultCapacity = 300

// DefaultRetention is the age after which samples are evicted.
const DefaultRetention = 5 * time.Minute

// Sample is a timestamped metric value.
type Sample struct {
	Time  time.Time `json:"t"`
	Value float64   `json:"v"`
}

// Series is a fixed-size circular buffer of samples in chronological order.
// Not safe for concurrent use; Store serialises access.
type Series struct {
	data  []Sample
	head  int
	count int
}

// NewSeries creates a series holding at most capacity samples.
func NewSeries(capacity int) *Series {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Series{data: make([]Sample, capacity)}
}

// Cap returns the buffer capacity.
func (s *Series) Cap() int {
	return len(s.data)
}

// Len returns the number of stored samples.
func (s *Series) Len() int {
	return s.count
}

// Push appends a sample, overwriting the oldest one when full.
func (s *Series) Push(sample Sample) {
	s.data[s.head] = sample
	s.head = (s.head + 1) % len(s.data)
	if s.count < len(s.data) {
		s.count++
	}
}

// Add is Push for a bare value.
func (s *Series) Add(t time.Time, v float64) {
	s.Push(Sample{Time: t, Value: v})
}

// at returns the i-th oldest sample.
func (s *Series) at(i int) Sample {
	start := (s.head - s.count + len(s.data)) % len(s.data)
	return s.data[(start+i)%len(s.data)]
}

// Samples returns all samples, oldest first.
func (s *Series) Samples() []Sample {
	out := make([]Sample, s.count)
	for i := range out {
		out[i] = s.at(i)
	}
	return out
}

// Values returns all values, oldest first.
func (s *Series) Values() []float64 {
	out := make([]float64, s.count)
	for i := range out {
		out[i] = s.at(i).Value
	}
	return out
}

// Last returns the newest sample.
func (s *Series) Last() (Sample, bool) {
	if s.count == 0 {
		return Sample{}, false
	}
	return s.at(s.count - 1), true
}

// First returns the oldest sample.
func (s *Series) First() (Sample, bool) {
	if s.count == 0 {
		return Sample{}, false
	}
	return s.at(0), true
}

// TrimBefore drops samples older than cutoff from the oldest end.
// Returns the number of samples removed.
func (s *Series) TrimBefore(cutoff time.Time) int {
	removed := 0
	for s.count > 0 && s.at(0).Time.Before(cutoff) {
		s.count--
		removed++
	}
	return removed
}
