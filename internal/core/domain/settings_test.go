package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, StrategyMixed, s.Synthesis.Strategy)
	assert.GreaterOrEqual(t, s.Batch.Workers, 1)
	assert.Equal(t, "synthetic", s.Batch.Prefix)
	assert.Equal(t, "instances", s.Output.Dir)
	assert.True(t, s.Catalog.Enabled)
	assert.Empty(t, s.Metrics.Path)
	assert.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	s := DefaultAppSettings()
	s.Batch.Workers = 0
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)

	s = DefaultAppSettings()
	s.Batch.Prefix = ""
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)

	s = DefaultAppSettings()
	s.Synthesis.Strategy = "nope"
	assert.ErrorIs(t, s.Validate(), ErrUnknownStrategy)
}

func TestValidationReport(t *testing.T) {
	var ok ValidationReport
	assert.True(t, ok.Valid())
	assert.NoError(t, ok.Err())

	bad := ValidationReport{Violations: []Violation{
		{LibraryID: -1, Message: "B = 0"},
		{LibraryID: 2, Message: "duplicate book ids [3]"},
	}}

	err := bad.Err()
	assert.False(t, bad.Valid())
	assert.ErrorIs(t, err, ErrInvalidInstance)
	assert.Contains(t, err.Error(), "B = 0")
	assert.Contains(t, err.Error(), "library 2: duplicate book ids [3]")
}
