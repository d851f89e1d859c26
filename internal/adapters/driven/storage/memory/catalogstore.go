package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is an in-memory implementation of driven.CatalogStore.
type CatalogStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]domain.CatalogEntry
	// runs holds run ids in first-save order.
	runs []string
}

// NewCatalogStore creates a new in-memory catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		entries: make(map[string]map[string]domain.CatalogEntry),
	}
}

// Save stores or updates a catalog entry.
func (s *CatalogStore) Save(_ context.Context, entry domain.CatalogEntry) error {
	if entry.RunID == "" || entry.Name == "" {
		return fmt.Errorf("catalog entry needs run id and name: %w", domain.ErrInvalidInput)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.Features = entry.Features.Clone()
	entry.Shortfalls = append([]domain.Shortfall(nil), entry.Shortfalls...)

	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.entries[entry.RunID]
	if !ok {
		run = make(map[string]domain.CatalogEntry)
		s.entries[entry.RunID] = run
		s.runs = append(s.runs, entry.RunID)
	}
	if existing, ok := run[entry.Name]; ok {
		entry.CreatedAt = existing.CreatedAt
	}
	run[entry.Name] = entry
	return nil
}

// Get retrieves an entry by run and name.
func (s *CatalogStore) Get(_ context.Context, runID, name string) (*domain.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[runID][name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// ListRuns returns run ids, most recently started first.
func (s *CatalogStore) ListRuns(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.runs))
	for i := len(s.runs) - 1; i >= 0; i-- {
		runs = append(runs, s.runs[i])
	}
	return runs, nil
}

// ListByRun returns the entries of one run ordered by name.
func (s *CatalogStore) ListByRun(_ context.Context, runID string) ([]domain.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run := s.entries[runID]
	entries := make([]domain.CatalogEntry, 0, len(run))
	for _, entry := range run {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// DeleteRun removes every entry of a run.
func (s *CatalogStore) DeleteRun(_ context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[runID]; !ok {
		return nil
	}
	delete(s.entries, runID)
	for i, id := range s.runs {
		if id == runID {
			s.runs = append(s.runs[:i], s.runs[i+1:]...)
			break
		}
	}
	return nil
}
