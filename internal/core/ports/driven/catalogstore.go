package driven

import (
	"context"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

// CatalogStore persists a record of every generated instance.
type CatalogStore interface {
	// Save stores a catalog entry. RunID and Name together are unique.
	Save(ctx context.Context, entry domain.CatalogEntry) error

	// Get retrieves an entry by run and name.
	Get(ctx context.Context, runID, name string) (*domain.CatalogEntry, error)

	// ListRuns returns run ids, most recent first.
	ListRuns(ctx context.Context) ([]string, error)

	// ListByRun returns the entries of one run ordered by name.
	ListByRun(ctx context.Context, runID string) ([]domain.CatalogEntry, error)

	// DeleteRun removes every entry of a run.
	DeleteRun(ctx context.Context, runID string) error
}
