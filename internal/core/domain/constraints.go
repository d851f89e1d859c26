package domain

import "math"

// Structural limits of the book-scanning problem.
const (
	// MaxTotalBooks caps the sum of library sizes across one instance.
	MaxTotalBooks = 1_000_000

	// MaxBookScore is the highest score a single book may carry.
	MaxBookScore = 1000

	// MaxScoreVariance is the largest variance possible for scores in [0, MaxBookScore].
	MaxScoreVariance = 250_000

	// MaxDimension bounds book, library and day counts.
	MaxDimension = 100_000

	// MaxLibraryRate bounds per-library signup days and books per day.
	MaxLibraryRate = 100_000
)

// Bound is a closed interval a feature must lie in.
type Bound struct {
	Min float64
	Max float64
}

// Clamp clips v into the bound.
func (b Bound) Clamp(v float64) float64 {
	return math.Max(b.Min, math.Min(b.Max, v))
}

// Contains returns true if v lies within the bound.
func (b Bound) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// ConstraintTable maps each feature to its domain bound.
type ConstraintTable map[string]Bound

// Bound returns the bound for a feature and whether one is defined.
func (t ConstraintTable) Bound(name string) (Bound, bool) {
	b, ok := t[name]
	return b, ok
}

// DefaultConstraints returns the problem's theoretical feature bounds.
func DefaultConstraints() ConstraintTable {
	return ConstraintTable{
		FeatureNumBooks:            {Min: 1, Max: MaxDimension},
		FeatureNumLibraries:        {Min: 1, Max: MaxDimension},
		FeatureNumDays:             {Min: 1, Max: MaxDimension},
		FeatureAverageBookScore:    {Min: 0, Max: MaxBookScore},
		FeatureVarianceBookScore:   {Min: 0, Max: MaxScoreVariance},
		FeatureBooksPerLibraryAvg:  {Min: 1, Max: MaxDimension},
		FeatureSignupTimeAvg:       {Min: 1, Max: MaxLibraryRate},
		FeatureShippingsPerLibrary: {Min: 1, Max: MaxLibraryRate},
		FeatureBookDuplicationRate: {Min: 0, Max: 100},
	}
}
