package services

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
	"github.com/custodia-labs/booksynth/internal/core/ports/driving"
	"github.com/custodia-labs/booksynth/internal/logger"
)

// Ensure FeatureService implements the interface.
var _ driving.FeatureService = (*FeatureService)(nil)

// skewVarianceFloor is the variance below which skewness is reported as 0.
const skewVarianceFloor = 1e-8

// FeatureService extracts feature vectors from existing instances.
type FeatureService struct {
	reader driven.InstanceReader
}

// NewFeatureService creates a feature service. reader is only needed by ExtractDir.
func NewFeatureService(reader driven.InstanceReader) *FeatureService {
	return &FeatureService{reader: reader}
}

// Extract computes the nine core features of inst.
func (s *FeatureService) Extract(inst *domain.Instance) domain.FeatureVector {
	scores := toFloats(inst.BookScores)
	sizes, signups, rates := libraryColumns(inst)
	scoreMean, scoreVar := meanVariance(scores)

	dupRate := 0.0
	if inst.NumBooks > 0 {
		dupRate = 100 * float64(inst.DuplicatedBooks()) / float64(inst.NumBooks)
	}

	return domain.FeatureVector{
		domain.FeatureNumBooks:            float64(inst.NumBooks),
		domain.FeatureNumLibraries:        float64(inst.NumLibraries),
		domain.FeatureNumDays:             float64(inst.NumDays),
		domain.FeatureAverageBookScore:    scoreMean,
		domain.FeatureVarianceBookScore:   scoreVar,
		domain.FeatureBooksPerLibraryAvg:  mean(sizes),
		domain.FeatureSignupTimeAvg:       mean(signups),
		domain.FeatureShippingsPerLibrary: mean(rates),
		domain.FeatureBookDuplicationRate: dupRate,
	}
}

// Summarize computes the core features plus descriptive statistics.
func (s *FeatureService) Summarize(inst *domain.Instance) domain.FeatureSummary {
	scores := toFloats(inst.BookScores)
	sizes, signups, rates := libraryColumns(inst)
	_, signupVar := meanVariance(signups)
	_, rateVar := meanVariance(rates)
	libsMean, libsVar := meanVariance(toFloats(inst.LibrariesPerBook()))

	return domain.FeatureSummary{
		Core:             s.Extract(inst),
		SumBookScores:    floats.Sum(scores),
		BookScoreMedian:  median(scores),
		BookScoreSkew:    skewness(scores),
		BooksPerLibMed:   median(sizes),
		BooksPerLibSkew:  skewness(sizes),
		SignupVariance:   signupVar,
		SignupMedian:     median(signups),
		SignupSkew:       skewness(signups),
		ShippingVariance: rateVar,
		ShippingMedian:   median(rates),
		ShippingSkew:     skewness(rates),
		LibsPerBookMean:  libsMean,
		LibsPerBookVar:   libsVar,
	}
}

// ExtractDir parses every *.txt instance under dir, recursively, and
// extracts its features. Rows are ordered by path; Source is the name of the
// directory holding the file.
func (s *FeatureService) ExtractDir(ctx context.Context, dir string) ([]domain.FeatureRow, error) {
	if s.reader == nil {
		return nil, domain.ErrNotImplemented
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".txt") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(paths)

	logger.Section("Feature Extraction")
	logger.Info("Found %d instance files under %s", len(paths), dir)

	rows := make([]domain.FeatureRow, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inst, err := s.reader.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		logger.Debug("Extracted %s (%d books, %d libraries)", path, inst.NumBooks, inst.NumLibraries)
		rows = append(rows, domain.FeatureRow{
			Name:     filepath.Base(path),
			Source:   filepath.Base(filepath.Dir(path)),
			Features: s.Extract(inst),
		})
	}
	return rows, nil
}

func libraryColumns(inst *domain.Instance) (sizes, signups, rates []float64) {
	n := len(inst.Libraries)
	sizes = make([]float64, n)
	signups = make([]float64, n)
	rates = make([]float64, n)
	for i := range inst.Libraries {
		sizes[i] = float64(inst.Libraries[i].TotalBooks)
		signups[i] = float64(inst.Libraries[i].SignupDays)
		rates[i] = float64(inst.Libraries[i].BooksPerDay)
	}
	return sizes, signups, rates
}

func toFloats(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// meanVariance returns the mean and population variance of x.
func meanVariance(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return stat.PopMeanVariance(x, nil)
}

// median averages the two middle values for even-length input.
func median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// skewness is the biased (population) sample skewness. Fewer than three
// samples or a near-constant sample yield 0.
func skewness(x []float64) float64 {
	if len(x) < 3 {
		return 0
	}
	_, variance := stat.PopMeanVariance(x, nil)
	if variance < skewVarianceFloor {
		return 0
	}
	return stat.Moment(3, x, nil) / math.Pow(variance, 1.5)
}
