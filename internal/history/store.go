package history

import (
	"sort"
	"sync"
	"time"

	"github.com/rileyhilliard/llamabar/internal/metrics"
)

// ModelHistory holds the series for one model.
type ModelHistory struct {
	TPS       *Series
	PromptTPS *Series
	MemoryMB  *Series
	QueueSize *Series
}

func newModelHistory(capacity int) *ModelHistory {
	return &ModelHistory{
		TPS:       NewSeries(capacity),
		PromptTPS: NewSeries(capacity),
		MemoryMB:  NewSeries(capacity),
		QueueSize: NewSeries(capacity),
	}
}

// Push records one poll of a model's metrics.
func (m *ModelHistory) Push(mm metrics.Metrics, t time.Time) {
	m.TPS.Add(t, mm.PredictedTokensPerSec)
	m.PromptTPS.Add(t, mm.PromptTokensPerSec)
	m.MemoryMB.Add(t, mm.MemoryMB)
	m.QueueSize.Add(t, float64(mm.QueueDepth()))
}

func (m *ModelHistory) series() []*Series {
	return []*Series{m.TPS, m.PromptTPS, m.MemoryMB, m.QueueSize}
}

func (m *ModelHistory) empty() bool {
	for _, s := range m.series() {
		if s.Len() > 0 {
			return false
		}
	}
	return true
}

// Store keeps per-model and system history. Its methods are safe for
// concurrent use, but the Series it exposes are read without the lock and
// belong to the goroutine that pushes.
type Store struct {
	mu        sync.RWMutex
	capacity  int
	retention time.Duration
	models    map[string]*ModelHistory

	CPUPercent    *Series
	MemoryPercent *Series
	UsedMemoryGB  *Series
	LlamaMemoryMB *Series
}

// NewStore creates an empty store.
func NewStore(capacity int, retention time.Duration) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Store{
		capacity:      capacity,
		retention:     retention,
		models:        make(map[string]*ModelHistory),
		CPUPercent:    NewSeries(capacity),
		MemoryPercent: NewSeries(capacity),
		UsedMemoryGB:  NewSeries(capacity),
		LlamaMemoryMB: NewSeries(capacity),
	}
}

// Retention returns the eviction age.
func (s *Store) Retention() time.Duration {
	return s.retention
}

// PushSystem records host metrics. It does not depend on the API being up.
func (s *Store) PushSystem(sys metrics.SystemMetrics, llamaMB float64, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CPUPercent.Add(t, sys.CPUPercent)
	s.MemoryPercent.Add(t, sys.MemoryPercent)
	s.UsedMemoryGB.Add(t, sys.UsedMemoryGB)
	s.LlamaMemoryMB.Add(t, llamaMB)
}

// PushModels records one API poll for every model in all.
func (s *Store) PushModels(all *metrics.AllMetrics, t time.Time) {
	if all == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, mm := range all.Models {
		h, ok := s.models[mm.Name]
		if !ok {
			h = newModelHistory(s.capacity)
			s.models[mm.Name] = h
		}
		h.Push(mm.Metrics, t)
	}
}

// Trim evicts samples older than the retention window. A model is dropped
// only once all of its series are empty, so unloaded models keep their
// history until it ages out.
func (s *Store) Trim(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.retention)
	for _, series := range s.systemSeries() {
		series.TrimBefore(cutoff)
	}
	for name, h := range s.models {
		for _, series := range h.series() {
			series.TrimBefore(cutoff)
		}
		if h.empty() {
			delete(s.models, name)
		}
	}
}

// Model returns the history for name, or nil.
func (s *Store) Model(name string) *ModelHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.models[name]
}

// ModelNames returns the tracked model names, sorted.
func (s *Store) ModelNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) systemSeries() []*Series {
	return []*Series{s.CPUPercent, s.MemoryPercent, s.UsedMemoryGB, s.LlamaMemoryMB}
}
