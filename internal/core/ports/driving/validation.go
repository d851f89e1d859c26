package driving

import "github.com/custodia-labs/booksynth/internal/core/domain"

// ValidationService checks instances against problem constraints.
type ValidationService interface {
	// Validate reports every violation in inst.
	Validate(inst *domain.Instance) domain.ValidationReport

	// ValidateFile parses and validates the instance at path.
	ValidateFile(path string) (domain.ValidationReport, error)
}
