// Package torusd hosts the daemon surface: an in-memory record of finished
// runs and an HTTP server that renders frames and launches benchmarks on
// demand.
package torusd

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pstagner/toruscope/internal/session"
	"github.com/pstagner/toruscope/pkg/utils"
)

// RunRecord is one completed benchmark run.
type RunRecord struct {
	ID              string
	CreatedAtUnixMs int64
	Frames          int
	Summaries       []session.Summary
}

// RunStore is an in-memory, concurrency-safe record of completed runs.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*RunRecord
}

// NewRunStore creates an empty store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*RunRecord),
	}
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

// Create registers a new run record. An empty runID gets a generated one.
func (s *RunStore) Create(runID string, frames int) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID == "" {
		runID = utils.GenerateRunID()
	}
	if _, exists := s.runs[runID]; exists {
		return nil, fmt.Errorf("run already exists: %s", runID)
	}

	rec := &RunRecord{
		ID:              runID,
		CreatedAtUnixMs: nowUnixMs(),
		Frames:          frames,
	}
	s.runs[runID] = rec
	return rec, nil
}

// SetSummaries stores the benchmark result for a run.
func (s *RunStore) SetSummaries(runID string, summaries []session.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("run not found: %s", runID)
	}
	rec.Summaries = summaries
	return nil
}

// Get returns a run record by ID.
func (s *RunStore) Get(runID string) (*RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[runID]
	return rec, ok
}

// List returns up to limit run records, newest first.
func (s *RunStore) List(limit int) []*RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := make([]*RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAtUnixMs > out[j].CreatedAtUnixMs
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
