package services

import (
	"math"
	"math/rand"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

// SynthesizeScores returns numBooks integer scores in [0, domain.MaxBookScore]
// drawn from a normal distribution with the given mean and variance.
//
// A variance at or above domain.MaxScoreVariance cannot be met by a normal
// draw clipped to the score range, so the maximum-variance layout is used
// instead: the first numBooks/2 books score MaxBookScore, the rest score 0.
func SynthesizeScores(numBooks int, mean, variance float64, rng *rand.Rand) []int {
	if numBooks <= 0 {
		return []int{}
	}
	scores := make([]int, numBooks)

	if variance >= domain.MaxScoreVariance {
		for i := 0; i < numBooks/2; i++ {
			scores[i] = domain.MaxBookScore
		}
		return scores
	}

	stdDev := math.Sqrt(math.Max(0, variance))
	for i := range scores {
		v := mean + stdDev*rng.NormFloat64()
		v = math.Max(0, math.Min(domain.MaxBookScore, v))
		scores[i] = int(math.RoundToEven(v))
	}
	return scores
}
