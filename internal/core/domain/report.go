package domain

import (
	"errors"
	"fmt"
	"time"
)

// Violation is a single rule an instance breaks.
type Violation struct {
	// LibraryID is -1 for instance-level violations.
	LibraryID int
	Message   string
}

// String renders the violation for reports.
func (v Violation) String() string {
	if v.LibraryID < 0 {
		return v.Message
	}
	return fmt.Sprintf("library %d: %s", v.LibraryID, v.Message)
}

// ValidationReport collects every violation found in one instance.
type ValidationReport struct {
	Violations []Violation
}

// Valid returns true if no violations were found.
func (r ValidationReport) Valid() bool {
	return len(r.Violations) == 0
}

// Err returns nil for a valid instance, otherwise an error wrapping
// ErrInvalidInstance that lists every violation.
func (r ValidationReport) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, 0, len(r.Violations)+1)
	errs = append(errs, ErrInvalidInstance)
	for _, v := range r.Violations {
		errs = append(errs, errors.New(v.String()))
	}
	return errors.Join(errs...)
}

// FeatureSummary holds the descriptive statistics of an existing instance.
type FeatureSummary struct {
	// Core holds the nine synthesis features.
	Core FeatureVector

	SumBookScores    float64
	BookScoreMedian  float64
	BookScoreSkew    float64
	BooksPerLibMed   float64
	BooksPerLibSkew  float64
	SignupVariance   float64
	SignupMedian     float64
	SignupSkew       float64
	ShippingVariance float64
	ShippingMedian   float64
	ShippingSkew     float64
	LibsPerBookMean  float64
	LibsPerBookVar   float64
}

// CatalogEntry records one generated instance.
type CatalogEntry struct {
	// RunID groups entries produced by one batch.
	RunID string

	// Name is the instance file name.
	Name string

	// Source is the generation source label.
	Source string

	// Strategy is the branch that produced the features.
	Strategy Strategy

	Features   FeatureVector
	Shortfalls []Shortfall

	// Path is where the instance was written, empty if not persisted.
	Path string

	CreatedAt time.Time
}

// BatchReport summarises a batch run.
type BatchReport struct {
	RunID     string
	Generated int
	Failed    int

	// Shortfalls counts shortfalls by kind across the batch.
	Shortfalls map[ShortfallKind]int

	// Entries lists successful items ordered by index.
	Entries []CatalogEntry

	// Errors lists per-item failures ordered by index.
	Errors []error
}
