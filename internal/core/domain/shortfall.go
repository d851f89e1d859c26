package domain

import "fmt"

// ShortfallKind identifies which realised statistic fell short.
type ShortfallKind string

// Shortfall kinds.
const (
	// ShortfallDuplication means fewer books are shared between libraries than requested.
	ShortfallDuplication ShortfallKind = "duplication"

	// ShortfallLibrarySize means a library received fewer books than its target size.
	ShortfallLibrarySize ShortfallKind = "library_size"
)

// String returns the string representation.
func (k ShortfallKind) String() string {
	return string(k)
}

// Shortfall records a realised statistic falling short of its target.
// Shortfalls degrade statistical fidelity only; the instance stays valid.
type Shortfall struct {
	Kind ShortfallKind

	// LibraryID is set for library-size shortfalls, -1 otherwise.
	LibraryID int

	Target   int
	Realized int
}

// Missing returns how far the realised value is below target.
func (s Shortfall) Missing() int {
	return s.Target - s.Realized
}

// String renders the shortfall for log lines.
func (s Shortfall) String() string {
	if s.Kind == ShortfallLibrarySize {
		return fmt.Sprintf("library %d size %d/%d", s.LibraryID, s.Realized, s.Target)
	}
	return fmt.Sprintf("%s %d/%d", s.Kind, s.Realized, s.Target)
}

// CountShortfalls tallies shortfalls by kind.
func CountShortfalls(shortfalls []Shortfall) map[ShortfallKind]int {
	counts := make(map[ShortfallKind]int)
	for _, s := range shortfalls {
		counts[s.Kind]++
	}
	return counts
}
