package services

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
	"github.com/custodia-labs/booksynth/internal/core/ports/driving"
)

// Ensure ValidationService implements the interface.
var _ driving.ValidationService = (*ValidationService)(nil)

// ValidationService checks instances against the problem constraints.
type ValidationService struct {
	reader driven.InstanceReader
}

// NewValidationService creates a validation service. reader is only needed by ValidateFile.
func NewValidationService(reader driven.InstanceReader) *ValidationService {
	return &ValidationService{reader: reader}
}

// ValidateFile parses and validates the instance at path.
func (s *ValidationService) ValidateFile(path string) (domain.ValidationReport, error) {
	if s.reader == nil {
		return domain.ValidationReport{}, domain.ErrNotImplemented
	}
	inst, err := s.reader.ReadFile(path)
	if err != nil {
		return domain.ValidationReport{}, err
	}
	return s.Validate(inst), nil
}

// Validate reports every violation in inst.
func (s *ValidationService) Validate(inst *domain.Instance) domain.ValidationReport {
	var report domain.ValidationReport
	add := func(lib int, format string, args ...any) {
		report.Violations = append(report.Violations, domain.Violation{
			LibraryID: lib,
			Message:   fmt.Sprintf(format, args...),
		})
	}

	checkRange := func(lib int, label string, v int) {
		if v < 1 || v > domain.MaxDimension {
			add(lib, "%s = %d (must be 1 <= %s <= %d)", label, v, label, domain.MaxDimension)
		}
	}
	checkRange(-1, "B", inst.NumBooks)
	checkRange(-1, "L", inst.NumLibraries)
	checkRange(-1, "D", inst.NumDays)

	if len(inst.BookScores) != inst.NumBooks {
		add(-1, "expected %d book scores, got %d", inst.NumBooks, len(inst.BookScores))
	}
	for i, score := range inst.BookScores {
		if score < 0 || score > domain.MaxBookScore {
			add(-1, "book %d has invalid score %d (0 <= S_i <= %d)", i, score, domain.MaxBookScore)
		}
	}

	if len(inst.Libraries) != inst.NumLibraries {
		add(-1, "expected %d libraries, found %d", inst.NumLibraries, len(inst.Libraries))
	}

	total := 0
	for i := range inst.Libraries {
		lib := &inst.Libraries[i]
		checkRange(lib.ID, "N_j", lib.TotalBooks)
		checkRange(lib.ID, "T_j", lib.SignupDays)
		checkRange(lib.ID, "M_j", lib.BooksPerDay)

		if len(lib.BookIDs) != lib.TotalBooks {
			add(lib.ID, "expected %d books, got %d", lib.TotalBooks, len(lib.BookIDs))
		}
		if dups := duplicateIDs(lib.BookIDs); len(dups) > 0 {
			add(lib.ID, "contains duplicate book ids %v", dups)
		}
		for _, id := range lib.BookIDs {
			if id < 0 || id >= inst.NumBooks {
				add(lib.ID, "invalid book id %d (valid range 0-%d)", id, inst.NumBooks-1)
			}
		}
		total += len(lib.BookIDs)
	}

	if total > domain.MaxTotalBooks {
		add(-1, "total books across libraries = %d (exceeds %d)", total, domain.MaxTotalBooks)
	}
	return report
}

// duplicateIDs returns the sorted ids that occur more than once.
func duplicateIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	var dups []int
	for _, id := range ids {
		reported, ok := seen[id]
		if ok && !reported {
			dups = append(dups, id)
			seen[id] = true
			continue
		}
		if !ok {
			seen[id] = false
		}
	}
	sort.Ints(dups)
	return dups
}
