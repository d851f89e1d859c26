package driving

import (
	"context"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

// FeatureService extracts feature vectors from existing instances.
type FeatureService interface {
	// Extract computes the nine core features of inst.
	Extract(inst *domain.Instance) domain.FeatureVector

	// Summarize computes the core features plus descriptive statistics.
	Summarize(inst *domain.Instance) domain.FeatureSummary

	// ExtractDir parses every *.txt instance under dir and extracts its features.
	ExtractDir(ctx context.Context, dir string) ([]domain.FeatureRow, error)
}
