package driven

import (
	"io"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

// FeatureStore reads and writes feature rows.
type FeatureStore interface {
	// ReadRows parses feature rows from r.
	ReadRows(r io.Reader) ([]domain.FeatureRow, error)

	// ReadFile parses the feature rows stored at path.
	ReadFile(path string) ([]domain.FeatureRow, error)

	// WriteRows renders rows to w with a header line.
	WriteRows(w io.Writer, rows []domain.FeatureRow) error

	// WriteFile renders rows to path, creating parent directories.
	WriteFile(path string, rows []domain.FeatureRow) error
}
