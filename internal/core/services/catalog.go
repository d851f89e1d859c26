package services

import (
	"context"

	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
	"github.com/custodia-labs/booksynth/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService browses previously generated instances.
type CatalogService struct {
	store driven.CatalogStore
}

// NewCatalogService creates a catalog service.
func NewCatalogService(store driven.CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// Runs lists batch run ids, most recent first.
func (s *CatalogService) Runs(ctx context.Context) ([]string, error) {
	return s.store.ListRuns(ctx)
}

// Entries lists the entries of one run. An unknown run is ErrNotFound.
func (s *CatalogService) Entries(ctx context.Context, runID string) ([]domain.CatalogEntry, error) {
	entries, err := s.store.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrNotFound
	}
	return entries, nil
}

// Entry retrieves one entry.
func (s *CatalogService) Entry(ctx context.Context, runID, name string) (*domain.CatalogEntry, error) {
	return s.store.Get(ctx, runID, name)
}

// Forget deletes a run from the catalog. The instance files are left alone.
func (s *CatalogService) Forget(ctx context.Context, runID string) error {
	if _, err := s.Entries(ctx, runID); err != nil {
		return err
	}
	return s.store.DeleteRun(ctx, runID)
}
