package services

import (
	"math/rand"

	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driving"
	"github.com/custodia-labs/booksynth/internal/logger"
)

// Ensure Generator implements the interface.
var _ driving.Generator = (*Generator)(nil)

// Generator synthesizes complete instances. It is stateless across calls;
// concurrent callers must each pass their own rng.
type Generator struct {
	features *FeatureSynthesizer
}

// NewGenerator creates a generator for the given synthesis configuration.
func NewGenerator(config domain.SynthesisConfig) *Generator {
	return &Generator{
		features: NewFeatureSynthesizer(config),
	}
}

// Config returns the synthesis configuration.
func (g *Generator) Config() domain.SynthesisConfig {
	return g.features.Config()
}

// SynthesizeFeatures derives and clamps a target feature vector from pool.
func (g *Generator) SynthesizeFeatures(
	pool []domain.FeatureVector,
	rng *rand.Rand,
) (domain.FeatureVector, domain.Origin, error) {
	return g.features.Synthesize(pool, rng)
}

// Generate derives a target feature vector from pool and materializes it.
func (g *Generator) Generate(pool []domain.FeatureVector, rng *rand.Rand) (*domain.GenerationResult, error) {
	fv, origin, err := g.features.Synthesize(pool, rng)
	if err != nil {
		return nil, err
	}
	logger.Debug("Synthesized features via %s from parents %v", origin.Strategy, origin.Parents)

	result := g.materialize(fv, rng)
	result.Origin = origin
	return result, nil
}

// FromFeatures materializes an instance for an explicit target vector.
// The vector is clamped first so the output always satisfies the domain bounds.
func (g *Generator) FromFeatures(fv domain.FeatureVector, rng *rand.Rand) (*domain.GenerationResult, error) {
	if err := fv.Validate(); err != nil {
		return nil, err
	}
	result := g.materialize(Clamp(fv, domain.DefaultConstraints()), rng)
	result.Origin = domain.Origin{Strategy: domain.OriginTarget}
	return result, nil
}

// materialize runs the score and assignment synthesizers on a clamped vector.
func (g *Generator) materialize(fv domain.FeatureVector, rng *rand.Rand) *domain.GenerationResult {
	scores := SynthesizeScores(
		fv.Int(domain.FeatureNumBooks),
		fv[domain.FeatureAverageBookScore],
		fv[domain.FeatureVarianceBookScore],
		rng,
	)
	assignment := SynthesizeAssignment(AssignmentParamsFrom(fv), rng)

	counts := domain.CountShortfalls(assignment.Shortfalls)
	if n := counts[domain.ShortfallLibrarySize]; n > 0 {
		logger.Warn("%d libraries below target size (book pool exhausted)", n)
	}
	if counts[domain.ShortfallDuplication] > 0 {
		logger.Warn("Duplicated books %d below requested %d",
			assignment.RealizedDuplicates, assignment.RequiredDuplicates)
	}
	logger.Debug("Duplicated books: %d realized, %d requested",
		assignment.RealizedDuplicates, assignment.RequiredDuplicates)

	return &domain.GenerationResult{
		Features:   fv,
		Instance:   Assemble(fv, scores, assignment.Libraries),
		Shortfalls: assignment.Shortfalls,
	}
}

// Assemble combines a feature vector, scores and libraries into an instance.
// Scores and library contents are independent and are not cross-checked.
func Assemble(fv domain.FeatureVector, scores []int, libraries []domain.Library) *domain.Instance {
	return &domain.Instance{
		NumBooks:     fv.Int(domain.FeatureNumBooks),
		NumLibraries: fv.Int(domain.FeatureNumLibraries),
		NumDays:      fv.Int(domain.FeatureNumDays),
		BookScores:   scores,
		Libraries:    libraries,
	}
}
