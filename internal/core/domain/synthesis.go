package domain

import "fmt"

// Strategy selects how a new feature vector is derived from the parent pool.
type Strategy string

// Available synthesis strategies.
const (
	// StrategyMixed uses crossover with CrossoverProbability, mutation otherwise.
	StrategyMixed Strategy = "mixed"

	// StrategyCrossover interpolates between two parents whenever the pool allows.
	StrategyCrossover Strategy = "crossover"

	// StrategyMutation perturbs a single parent by a relative fraction.
	StrategyMutation Strategy = "mutation"

	// StrategyNeighborhood draws each feature within an absolute buffer of one parent.
	StrategyNeighborhood Strategy = "neighborhood"

	// StrategyRandom draws every feature uniformly over its domain bound.
	StrategyRandom Strategy = "random"
)

// OriginTarget marks an instance materialized from an explicit feature
// vector. It appears in origins only and is not a selectable strategy.
const OriginTarget Strategy = "target"

// IsValid returns true if the strategy is recognised.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyMixed, StrategyCrossover, StrategyMutation, StrategyNeighborhood, StrategyRandom:
		return true
	default:
		return false
	}
}

// NeedsParents returns true if the strategy reads the parent pool.
func (s Strategy) NeedsParents() bool {
	return s != StrategyRandom
}

// String returns the string representation.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategyMixed:
		return "Mixed (crossover or mutation by probability)"
	case StrategyCrossover:
		return "Crossover (interpolate two parents)"
	case StrategyMutation:
		return "Mutation (relative perturbation of one parent)"
	case StrategyNeighborhood:
		return "Neighborhood (absolute buffer around one parent)"
	case StrategyRandom:
		return "Random (uniform over domain bounds)"
	default:
		return "Unknown"
	}
}

// Default synthesis parameters.
const (
	DefaultCrossoverProbability = 0.7
	DefaultPerturbationMin      = -0.05
	DefaultPerturbationMax      = 0.5
	DefaultNeighborhoodBuffer   = 10.0
)

// SynthesisConfig holds the knobs for feature synthesis.
type SynthesisConfig struct {
	// Strategy selects the derivation branch.
	Strategy Strategy

	// CrossoverProbability is used by StrategyMixed.
	CrossoverProbability float64

	// PerturbationMin and PerturbationMax bound the mutation fraction.
	PerturbationMin float64
	PerturbationMax float64

	// NeighborhoodBuffer is the absolute deviation allowed by StrategyNeighborhood.
	NeighborhoodBuffer float64
}

// DefaultSynthesisConfig returns the mixed strategy with default parameters.
func DefaultSynthesisConfig() SynthesisConfig {
	return SynthesisConfig{
		Strategy:             StrategyMixed,
		CrossoverProbability: DefaultCrossoverProbability,
		PerturbationMin:      DefaultPerturbationMin,
		PerturbationMax:      DefaultPerturbationMax,
		NeighborhoodBuffer:   DefaultNeighborhoodBuffer,
	}
}

// Validate checks the configuration for usable values.
func (c SynthesisConfig) Validate() error {
	if !c.Strategy.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, c.Strategy)
	}
	if c.CrossoverProbability < 0 || c.CrossoverProbability > 1 {
		return fmt.Errorf("crossover probability %.3f not in [0,1]: %w", c.CrossoverProbability, ErrInvalidInput)
	}
	if c.PerturbationMin > c.PerturbationMax {
		return fmt.Errorf("perturbation range [%.3f,%.3f] is inverted: %w",
			c.PerturbationMin, c.PerturbationMax, ErrInvalidInput)
	}
	if c.NeighborhoodBuffer < 0 {
		return fmt.Errorf("neighborhood buffer %.3f is negative: %w", c.NeighborhoodBuffer, ErrInvalidInput)
	}
	return nil
}

// Origin records which branch produced a feature vector.
type Origin struct {
	// Strategy is the branch actually taken. For StrategyMixed this is
	// StrategyCrossover or StrategyMutation.
	Strategy Strategy

	// Parents holds the pool indices that were read.
	Parents []int
}

// GenerationResult is the outcome of one generation call.
type GenerationResult struct {
	Features   FeatureVector
	Origin     Origin
	Instance   *Instance
	Shortfalls []Shortfall
}
