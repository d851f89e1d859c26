package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrategy_IsValid(t *testing.T) {
	tests := []struct {
		strategy Strategy
		expected bool
	}{
		{StrategyMixed, true},
		{StrategyCrossover, true},
		{StrategyMutation, true},
		{StrategyNeighborhood, true},
		{StrategyRandom, true},
		{Strategy(""), false},
		{Strategy("genetic"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.strategy.IsValid())
		})
	}
}

func TestStrategy_NeedsParents(t *testing.T) {
	assert.True(t, StrategyMixed.NeedsParents())
	assert.True(t, StrategyNeighborhood.NeedsParents())
	assert.False(t, StrategyRandom.NeedsParents())
}

func TestStrategy_Description(t *testing.T) {
	assert.Contains(t, StrategyCrossover.Description(), "Crossover")
	assert.Equal(t, "Unknown", Strategy("x").Description())
}

func TestDefaultSynthesisConfig(t *testing.T) {
	cfg := DefaultSynthesisConfig()

	assert.Equal(t, StrategyMixed, cfg.Strategy)
	assert.Equal(t, 0.7, cfg.CrossoverProbability)
	assert.Equal(t, -0.05, cfg.PerturbationMin)
	assert.Equal(t, 0.5, cfg.PerturbationMax)
	assert.NoError(t, cfg.Validate())
}

func TestSynthesisConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SynthesisConfig)
		target error
	}{
		{"unknown strategy", func(c *SynthesisConfig) { c.Strategy = "x" }, ErrUnknownStrategy},
		{"probability above one", func(c *SynthesisConfig) { c.CrossoverProbability = 1.5 }, ErrInvalidInput},
		{"probability below zero", func(c *SynthesisConfig) { c.CrossoverProbability = -0.1 }, ErrInvalidInput},
		{"inverted range", func(c *SynthesisConfig) { c.PerturbationMin = 1 }, ErrInvalidInput},
		{"negative buffer", func(c *SynthesisConfig) { c.NeighborhoodBuffer = -1 }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSynthesisConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.target)
		})
	}
}

func TestShortfall_String(t *testing.T) {
	lib := Shortfall{Kind: ShortfallLibrarySize, LibraryID: 3, Target: 10, Realized: 7}
	dup := Shortfall{Kind: ShortfallDuplication, LibraryID: -1, Target: 50, Realized: 20}

	assert.Equal(t, "library 3 size 7/10", lib.String())
	assert.Equal(t, "duplication 20/50", dup.String())
	assert.Equal(t, 30, dup.Missing())
}

func TestCountShortfalls(t *testing.T) {
	counts := CountShortfalls([]Shortfall{
		{Kind: ShortfallLibrarySize},
		{Kind: ShortfallLibrarySize},
		{Kind: ShortfallDuplication},
	})

	assert.Equal(t, 2, counts[ShortfallLibrarySize])
	assert.Equal(t, 1, counts[ShortfallDuplication])
}
