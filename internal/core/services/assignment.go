package services

import (
	"math"
	"math/rand"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

// AssignmentParams are the features that drive library construction.
type AssignmentParams struct {
	NumBooks            int
	NumLibraries        int
	BooksPerLibraryAvg  float64
	BookDuplicationRate float64
	SignupTimeAvg       float64
	ShippingsPerLibrary float64
}

// AssignmentParamsFrom reads assignment parameters from a clamped feature vector.
func AssignmentParamsFrom(fv domain.FeatureVector) AssignmentParams {
	return AssignmentParams{
		NumBooks:            fv.Int(domain.FeatureNumBooks),
		NumLibraries:        fv.Int(domain.FeatureNumLibraries),
		BooksPerLibraryAvg:  fv[domain.FeatureBooksPerLibraryAvg],
		BookDuplicationRate: fv[domain.FeatureBookDuplicationRate],
		SignupTimeAvg:       fv[domain.FeatureSignupTimeAvg],
		ShippingsPerLibrary: fv[domain.FeatureShippingsPerLibrary],
	}
}

// Assignment is the library collection plus what it fell short on.
type Assignment struct {
	Libraries []domain.Library

	RequiredDuplicates int
	RealizedDuplicates int

	Shortfalls []domain.Shortfall
}

// poolPolicy tags how drawing from a bookPool affects it.
type poolPolicy int

const (
	// sharedPool ids are sampled without replacement within one draw but stay
	// available to later libraries. Reuse across libraries is what creates duplication.
	sharedPool poolPolicy = iota

	// exclusivePool ids are removed once drawn so no two libraries share them.
	exclusivePool
)

// bookPool is a set of book ids drawn from under a fixed policy.
type bookPool struct {
	policy poolPolicy
	ids    []int
}

func (p *bookPool) size() int {
	return len(p.ids)
}

// draw samples min(n, size) distinct ids with a partial Fisher-Yates shuffle.
func (p *bookPool) draw(n int, rng *rand.Rand) []int {
	n = min(n, len(p.ids))
	if n <= 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(p.ids)-i)
		p.ids[i], p.ids[j] = p.ids[j], p.ids[i]
	}
	out := make([]int, n)
	copy(out, p.ids[:n])
	if p.policy == exclusivePool {
		p.ids = p.ids[n:]
	}
	return out
}

// SynthesizeAssignment builds exactly NumLibraries libraries that approximate
// the requested average size and duplication rate.
func SynthesizeAssignment(params AssignmentParams, rng *rand.Rand) Assignment {
	numLibraries := max(1, params.NumLibraries)
	numBooks := max(0, params.NumBooks)

	maxTotal := int(math.Floor(float64(numLibraries) * math.Max(0, params.BooksPerLibraryAvg)))
	maxTotal = min(maxTotal, domain.MaxTotalBooks)
	base := maxTotal / numLibraries
	remainder := maxTotal % numLibraries

	rate := math.Max(0, math.Min(100, params.BookDuplicationRate))
	required := int(math.Floor(float64(numBooks) * rate / 100))
	shared, exclusive := splitPools(numBooks, required, rng)

	signup := rateFrom(params.SignupTimeAvg)
	perDay := rateFrom(params.ShippingsPerLibrary)

	result := Assignment{
		Libraries:          make([]domain.Library, 0, numLibraries),
		RequiredDuplicates: required,
	}

	for id := 0; id < numLibraries; id++ {
		target := base
		if id < remainder {
			target++
		}

		books := shared.draw(target, rng)
		books = append(books, exclusive.draw(target-len(books), rng)...)
		if books == nil {
			books = []int{}
		}

		if len(books) < target {
			result.Shortfalls = append(result.Shortfalls, domain.Shortfall{
				Kind:      domain.ShortfallLibrarySize,
				LibraryID: id,
				Target:    target,
				Realized:  len(books),
			})
		}

		result.Libraries = append(result.Libraries, domain.Library{
			ID:          id,
			BookIDs:     books,
			SignupDays:  signup,
			BooksPerDay: perDay,
			TotalBooks:  len(books),
		})
	}

	result.RealizedDuplicates = countDuplicated(numBooks, result.Libraries)
	if rate > 0 && result.RealizedDuplicates < required {
		result.Shortfalls = append(result.Shortfalls, domain.Shortfall{
			Kind:      domain.ShortfallDuplication,
			LibraryID: -1,
			Target:    required,
			Realized:  result.RealizedDuplicates,
		})
	}

	return result
}

// splitPools picks `required` distinct ids uniformly for the shared pool;
// the complement forms the exclusive pool.
func splitPools(numBooks, required int, rng *rand.Rand) (*bookPool, *bookPool) {
	ids := make([]int, numBooks)
	for i := range ids {
		ids[i] = i
	}
	all := &bookPool{policy: exclusivePool, ids: ids}
	dup := all.draw(required, rng)
	return &bookPool{policy: sharedPool, ids: dup}, all
}

// rateFrom rounds a per-library average into the allowed [1, MaxLibraryRate] range.
func rateFrom(avg float64) int {
	return int(math.Max(1, math.Min(domain.MaxLibraryRate, math.Round(avg))))
}

// countDuplicated counts books held by two or more distinct libraries.
func countDuplicated(numBooks int, libs []domain.Library) int {
	inst := domain.Instance{NumBooks: numBooks, Libraries: libs}
	return inst.DuplicatedBooks()
}
