package driving

import (
	"context"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

// CatalogService browses previously generated instances.
type CatalogService interface {
	// Runs lists batch run ids, most recent first.
	Runs(ctx context.Context) ([]string, error)

	// Entries lists the entries of one run.
	Entries(ctx context.Context, runID string) ([]domain.CatalogEntry, error)

	// Entry retrieves one entry.
	Entry(ctx context.Context, runID, name string) (*domain.CatalogEntry, error)

	// Forget deletes a run from the catalog.
	Forget(ctx context.Context, runID string) error
}
