package services

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

// FeatureSynthesizer derives new target feature vectors from a parent pool.
// It holds no mutable state; all randomness comes from the rng argument.
type FeatureSynthesizer struct {
	config      domain.SynthesisConfig
	constraints domain.ConstraintTable
}

// NewFeatureSynthesizer creates a synthesizer using the default constraint table.
func NewFeatureSynthesizer(config domain.SynthesisConfig) *FeatureSynthesizer {
	return &FeatureSynthesizer{
		config:      config,
		constraints: domain.DefaultConstraints(),
	}
}

// Config returns the synthesis configuration.
func (s *FeatureSynthesizer) Config() domain.SynthesisConfig {
	return s.config
}

// Synthesize produces one clamped feature vector from pool.
func (s *FeatureSynthesizer) Synthesize(
	pool []domain.FeatureVector,
	rng *rand.Rand,
) (domain.FeatureVector, domain.Origin, error) {
	if err := s.config.Validate(); err != nil {
		return nil, domain.Origin{}, err
	}
	if s.config.Strategy.NeedsParents() && len(pool) == 0 {
		return nil, domain.Origin{}, domain.ErrEmptyPool
	}
	for i, parent := range pool {
		if err := parent.Validate(); err != nil {
			return nil, domain.Origin{}, fmt.Errorf("parent %d: %w", i, err)
		}
	}

	raw, origin := s.derive(pool, rng)
	return Clamp(raw, s.constraints), origin, nil
}

// derive runs the configured strategy without clamping.
func (s *FeatureSynthesizer) derive(pool []domain.FeatureVector, rng *rand.Rand) (domain.FeatureVector, domain.Origin) {
	switch s.config.Strategy {
	case domain.StrategyRandom:
		return s.random(rng), domain.Origin{Strategy: domain.StrategyRandom}
	case domain.StrategyNeighborhood:
		i := rng.Intn(len(pool))
		return s.neighborhood(pool[i], rng), domain.Origin{Strategy: domain.StrategyNeighborhood, Parents: []int{i}}
	case domain.StrategyMutation:
		return s.mutateOne(pool, rng)
	case domain.StrategyCrossover:
		if len(pool) >= 2 {
			return s.crossoverTwo(pool, rng)
		}
		return s.mutateOne(pool, rng)
	default:
		// Mixed: the probability draw is only taken when crossover is possible.
		if len(pool) >= 2 && rng.Float64() < s.config.CrossoverProbability {
			return s.crossoverTwo(pool, rng)
		}
		return s.mutateOne(pool, rng)
	}
}

func (s *FeatureSynthesizer) crossoverTwo(pool []domain.FeatureVector, rng *rand.Rand) (domain.FeatureVector, domain.Origin) {
	i, j := distinctPair(len(pool), rng)
	return Crossover(pool[i], pool[j], rng), domain.Origin{Strategy: domain.StrategyCrossover, Parents: []int{i, j}}
}

func (s *FeatureSynthesizer) mutateOne(pool []domain.FeatureVector, rng *rand.Rand) (domain.FeatureVector, domain.Origin) {
	i := rng.Intn(len(pool))
	fv := Mutate(pool[i], s.config.PerturbationMin, s.config.PerturbationMax, rng)
	return fv, domain.Origin{Strategy: domain.StrategyMutation, Parents: []int{i}}
}

// distinctPair picks two different indices uniformly from [0, n). n must be >= 2.
func distinctPair(n int, rng *rand.Rand) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// Crossover draws every feature uniformly between the two parents' values.
// Features are visited in canonical order so a seeded rng reproduces the result.
func Crossover(a, b domain.FeatureVector, rng *rand.Rand) domain.FeatureVector {
	out := make(domain.FeatureVector, len(domain.FeatureNames))
	for _, name := range domain.FeatureNames {
		lo := math.Min(a[name], b[name])
		hi := math.Max(a[name], b[name])
		out[name] = lo + rng.Float64()*(hi-lo)
	}
	return out
}

// Mutate scales every feature by (1 ± f), with f uniform in [minFrac, maxFrac]
// and the sign chosen uniformly.
func Mutate(parent domain.FeatureVector, minFrac, maxFrac float64, rng *rand.Rand) domain.FeatureVector {
	out := make(domain.FeatureVector, len(domain.FeatureNames))
	for _, name := range domain.FeatureNames {
		frac := minFrac + rng.Float64()*(maxFrac-minFrac)
		sign := 1.0
		if rng.Intn(2) == 0 {
			sign = -1.0
		}
		out[name] = parent[name] * (1 + sign*frac)
	}
	return out
}

func (s *FeatureSynthesizer) neighborhood(parent domain.FeatureVector, rng *rand.Rand) domain.FeatureVector {
	buf := s.config.NeighborhoodBuffer
	out := make(domain.FeatureVector, len(domain.FeatureNames))
	for _, name := range domain.FeatureNames {
		b, ok := s.constraints.Bound(name)
		if !ok {
			out[name] = parent[name]
			continue
		}
		lo := math.Max(b.Min, parent[name]-buf)
		hi := math.Min(b.Max, parent[name]+buf)
		if lo > hi {
			// Parent lies outside the bound by more than the buffer.
			lo = b.Clamp(parent[name])
			hi = lo
		}
		out[name] = uniformFeature(name, lo, hi, rng)
	}
	return out
}

func (s *FeatureSynthesizer) random(rng *rand.Rand) domain.FeatureVector {
	out := make(domain.FeatureVector, len(domain.FeatureNames))
	for _, name := range domain.FeatureNames {
		b := s.constraints[name]
		out[name] = uniformFeature(name, b.Min, b.Max, rng)
	}
	return out
}

// uniformFeature draws an integer in [lo, hi] for integer features and a
// value rounded to two decimals otherwise.
func uniformFeature(name string, lo, hi float64, rng *rand.Rand) float64 {
	if domain.IsIntegerFeature(name) {
		l, h := int(lo), int(hi)
		return float64(l + rng.Intn(h-l+1))
	}
	v := lo + rng.Float64()*(hi-lo)
	return math.Min(hi, math.Max(lo, math.Round(v*100)/100))
}

// Clamp clips every feature into table, caps books_per_library_avg so the
// total book count cannot exceed domain.MaxTotalBooks, and truncates the
// integer features. Clamp is idempotent.
func Clamp(fv domain.FeatureVector, table domain.ConstraintTable) domain.FeatureVector {
	out := fv.Clone()
	for _, name := range domain.FeatureNames {
		if b, ok := table.Bound(name); ok {
			out[name] = b.Clamp(out[name])
		}
	}

	libs := math.Max(1, out[domain.FeatureNumLibraries])
	ceiling := domain.MaxTotalBooks / libs
	if b, ok := table.Bound(domain.FeatureBooksPerLibraryAvg); ok {
		ceiling = math.Min(b.Max, ceiling)
	}
	out[domain.FeatureBooksPerLibraryAvg] = math.Min(out[domain.FeatureBooksPerLibraryAvg], ceiling)

	for _, name := range domain.IntegerFeatures {
		out[name] = math.Trunc(out[name])
	}
	if out[domain.FeatureNumLibraries] < 1 {
		out[domain.FeatureNumLibraries] = 1
	}
	return out
}
