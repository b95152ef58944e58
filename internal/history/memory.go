package history

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var errNotInitialized = errors.New("history store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	records     map[string][]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.records = make(map[string][]Record)
	return nil
}

func (s *MemoryStore) Append(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	records := s.records[record.RunID]
	for i := range records {
		if records[i].Generation == record.Generation {
			records[i] = record
			return nil
		}
	}
	s.records[record.RunID] = append(records, record)
	return nil
}

func (s *MemoryStore) List(_ context.Context, runID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	out := append([]Record(nil), s.records[runID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Generation < out[j].Generation
	})
	return out, nil
}

func (s *MemoryStore) Runs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	runs := make([]string, 0, len(s.records))
	for id := range s.records {
		runs = append(runs, id)
	}
	sort.Strings(runs)
	return runs, nil
}
