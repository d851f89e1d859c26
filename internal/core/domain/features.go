package domain

import (
	"fmt"
	"math"
)

// Feature names, as they appear in feature CSV headers.
const (
	FeatureNumBooks            = "num_books"
	FeatureNumLibraries        = "num_libraries"
	FeatureNumDays             = "num_days"
	FeatureAverageBookScore    = "average_book_score"
	FeatureVarianceBookScore   = "variance_book_score"
	FeatureBooksPerLibraryAvg  = "books_per_library_avg"
	FeatureSignupTimeAvg       = "signup_time_avg"
	FeatureShippingsPerLibrary = "shippings_per_library_avg"
	FeatureBookDuplicationRate = "book_duplication_rate"
)

// FeatureNames lists every feature in canonical column order.
var FeatureNames = []string{
	FeatureNumBooks,
	FeatureNumLibraries,
	FeatureNumDays,
	FeatureAverageBookScore,
	FeatureVarianceBookScore,
	FeatureBooksPerLibraryAvg,
	FeatureSignupTimeAvg,
	FeatureShippingsPerLibrary,
	FeatureBookDuplicationRate,
}

// IntegerFeatures are truncated to whole numbers after synthesis.
var IntegerFeatures = []string{
	FeatureNumBooks,
	FeatureNumLibraries,
	FeatureNumDays,
}

// IsIntegerFeature returns true if the feature is stored as a whole number.
func IsIntegerFeature(name string) bool {
	for _, f := range IntegerFeatures {
		if f == name {
			return true
		}
	}
	return false
}

// FeatureVector is the compact numeric summary used to steer synthesis.
// Keys are the names in FeatureNames.
type FeatureVector map[string]float64

// Validate checks that every required feature is present and finite.
func (fv FeatureVector) Validate() error {
	for _, name := range FeatureNames {
		v, ok := fv[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingFeature, name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("feature %s is not finite: %w", name, ErrInvalidInput)
		}
	}
	return nil
}

// Clone returns an independent copy of the vector.
func (fv FeatureVector) Clone() FeatureVector {
	out := make(FeatureVector, len(fv))
	for k, v := range fv {
		out[k] = v
	}
	return out
}

// Int returns the feature truncated towards zero.
func (fv FeatureVector) Int(name string) int {
	return int(fv[name])
}

// FeatureRow is a named feature vector as stored in feature CSV files.
type FeatureRow struct {
	// Name is the instance name (file name for extracted rows).
	Name string

	// Source identifies where the row came from (corpus directory or generator).
	Source string

	// Features holds the nine core features.
	Features FeatureVector
}

// Pool returns the feature vectors of rows, in order.
func Pool(rows []FeatureRow) []FeatureVector {
	pool := make([]FeatureVector, 0, len(rows))
	for i := range rows {
		pool = append(pool, rows[i].Features)
	}
	return pool
}
