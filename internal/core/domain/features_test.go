package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullVector() FeatureVector {
	return FeatureVector{
		FeatureNumBooks:            10,
		FeatureNumLibraries:        2,
		FeatureNumDays:             7,
		FeatureAverageBookScore:    500,
		FeatureVarianceBookScore:   0,
		FeatureBooksPerLibraryAvg:  5,
		FeatureSignupTimeAvg:       2,
		FeatureShippingsPerLibrary: 1,
		FeatureBookDuplicationRate: 0,
	}
}

func TestFeatureNames_Count(t *testing.T) {
	assert.Len(t, FeatureNames, 9)
	assert.Len(t, DefaultConstraints(), len(FeatureNames))
}

func TestFeatureVector_Validate(t *testing.T) {
	require.NoError(t, fullVector().Validate())

	for _, name := range FeatureNames {
		t.Run(name, func(t *testing.T) {
			fv := fullVector()
			delete(fv, name)

			err := fv.Validate()

			assert.ErrorIs(t, err, ErrMissingFeature)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestFeatureVector_Validate_NotFinite(t *testing.T) {
	fv := fullVector()
	fv[FeatureNumDays] = math.NaN()
	assert.ErrorIs(t, fv.Validate(), ErrInvalidInput)

	fv[FeatureNumDays] = math.Inf(1)
	assert.ErrorIs(t, fv.Validate(), ErrInvalidInput)
}

func TestFeatureVector_Clone(t *testing.T) {
	fv := fullVector()
	clone := fv.Clone()
	clone[FeatureNumBooks] = 99

	assert.Equal(t, 10.0, fv[FeatureNumBooks])
	assert.Equal(t, 99.0, clone[FeatureNumBooks])
}

func TestFeatureVector_Int(t *testing.T) {
	fv := FeatureVector{FeatureNumBooks: 12.9}
	assert.Equal(t, 12, fv.Int(FeatureNumBooks))
}

func TestIsIntegerFeature(t *testing.T) {
	assert.True(t, IsIntegerFeature(FeatureNumBooks))
	assert.True(t, IsIntegerFeature(FeatureNumDays))
	assert.False(t, IsIntegerFeature(FeatureAverageBookScore))
}

func TestPool(t *testing.T) {
	rows := []FeatureRow{
		{Name: "a", Features: fullVector()},
		{Name: "b", Features: FeatureVector{FeatureNumBooks: 3}},
	}

	pool := Pool(rows)

	require.Len(t, pool, 2)
	assert.Equal(t, 3.0, pool[1][FeatureNumBooks])
}
