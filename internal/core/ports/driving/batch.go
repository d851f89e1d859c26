package driving

import (
	"context"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

// BatchRequest describes one batch run.
type BatchRequest struct {
	// Pool is the parent pool. Ignored when Targets is set.
	Pool []domain.FeatureVector

	// Targets, when set, are materialized one instance per row instead of
	// synthesizing new feature vectors. Count is then len(Targets).
	Targets []domain.FeatureRow

	// Count is the number of instances to generate from Pool.
	Count int

	// Seed is the base seed; item i uses Seed+i.
	Seed int64

	// Prefix names generated instances "<prefix>_<i>.txt".
	Prefix string

	// Source labels catalog entries.
	Source string

	// OutputDir receives instance files. Empty skips writing.
	OutputDir string

	// Workers bounds concurrency. Values below 1 mean 1.
	Workers int
}

// BatchService runs many independent generation calls.
type BatchService interface {
	// Run generates every item of req. Per-item failures are reported in
	// the returned report and do not abort the batch.
	Run(ctx context.Context, req BatchRequest) (*domain.BatchReport, error)

	// SynthesizeRows derives count feature rows without materializing instances.
	SynthesizeRows(ctx context.Context, pool []domain.FeatureVector, count int, seed int64, prefix, source string) ([]domain.FeatureRow, error)
}
