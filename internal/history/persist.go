package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rileyhilliard/llamabar/internal/errors"
)

const snapshotVersion = 1

type modelSnapshot struct {
	TPS       []Sample `json:"tps"`
	PromptTPS []Sample `json:"prompt_tps"`
	MemoryMB  []Sample `json:"memory_mb"`
	QueueSize []Sample `json:"queue_size"`
}

type snapshot struct {
	Version       int                      `json:"version"`
	SavedAt       time.Time                `json:"saved_at"`
	CPUPercent    []Sample                 `json:"cpu_percent"`
	MemoryPercent []Sample                 `json:"memory_percent"`
	UsedMemoryGB  []Sample                 `json:"used_memory_gb"`
	LlamaMemoryMB []Sample                 `json:"llama_memory_mb"`
	Models        map[string]modelSnapshot `json:"models"`
}

// Save writes the store to path as JSON, replacing any previous snapshot.
func (s *Store) Save(path string, now time.Time) error {
	s.mu.RLock()
	snap := snapshot{
		Version:       snapshotVersion,
		SavedAt:       now,
		CPUPercent:    s.CPUPercent.Samples(),
		MemoryPercent: s.MemoryPercent.Samples(),
		UsedMemoryGB:  s.UsedMemoryGB.Samples(),
		LlamaMemoryMB: s.LlamaMemoryMB.Samples(),
		Models:        make(map[string]modelSnapshot, len(s.models)),
	}
	for name, h := range s.models {
		snap.Models[name] = modelSnapshot{
			TPS:       h.TPS.Samples(),
			PromptTPS: h.PromptTPS.Samples(),
			MemoryMB:  h.MemoryMB.Samples(),
			QueueSize: h.QueueSize.Samples(),
		}
	}
	s.mu.RUnlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to serialize metrics history", "")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create data directory",
			"Check permissions on "+filepath.Dir(path))
	}

	// readers never see a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write metrics file", "Check permissions on "+path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write metrics file", "Check permissions on "+path)
	}
	return nil
}

// Load restores a store from path and trims samples already past retention.
// A missing file yields an empty store.
func Load(path string, capacity int, retention time.Duration, now time.Time) (*Store, error) {
	store := NewStore(capacity, retention)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return store, errors.WrapWithCode(err, errors.ErrConfig, "Failed to read metrics file", "Delete "+path+" to start fresh")
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store, errors.WrapWithCode(err, errors.ErrConfig, "Failed to parse metrics file", "Delete "+path+" to start fresh")
	}

	fill(store.CPUPercent, snap.CPUPercent)
	fill(store.MemoryPercent, snap.MemoryPercent)
	fill(store.UsedMemoryGB, snap.UsedMemoryGB)
	fill(store.LlamaMemoryMB, snap.LlamaMemoryMB)
	for name, ms := range snap.Models {
		h := newModelHistory(store.capacity)
		fill(h.TPS, ms.TPS)
		fill(h.PromptTPS, ms.PromptTPS)
		fill(h.MemoryMB, ms.MemoryMB)
		fill(h.QueueSize, ms.QueueSize)
		store.models[name] = h
	}

	store.Trim(now)
	return store, nil
}

// Clear deletes the snapshot at path. A missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to delete metrics file", "")
	}
	return nil
}

func fill(s *Series, samples []Sample) {
	for _, sample := range samples {
		s.Push(sample)
	}
}
