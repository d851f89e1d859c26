package driven

import (
	"io"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

// InstanceReader parses instances from the persisted text format.
type InstanceReader interface {
	// Read parses one instance from r.
	Read(r io.Reader) (*domain.Instance, error)

	// ReadFile parses the instance stored at path.
	ReadFile(path string) (*domain.Instance, error)
}

// InstanceWriter renders instances in the persisted text format.
// Output must stay bit-exact with existing corpora.
type InstanceWriter interface {
	// Write renders inst to w.
	Write(w io.Writer, inst *domain.Instance) error

	// WriteFile renders inst to path, creating parent directories.
	WriteFile(path string, inst *domain.Instance) error
}
