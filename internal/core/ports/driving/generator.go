package driving

import (
	"math/rand"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

// Generator synthesizes instances from a parent pool.
// Calls share no state except the random source passed in, so a caller
// that wants reproducible output seeds rng itself.
type Generator interface {
	// Generate derives a target feature vector from pool and materializes it.
	Generate(pool []domain.FeatureVector, rng *rand.Rand) (*domain.GenerationResult, error)

	// SynthesizeFeatures derives and clamps a target feature vector only.
	SynthesizeFeatures(pool []domain.FeatureVector, rng *rand.Rand) (domain.FeatureVector, domain.Origin, error)

	// FromFeatures materializes an instance for an explicit target vector.
	FromFeatures(fv domain.FeatureVector, rng *rand.Rand) (*domain.GenerationResult, error)
}
