// Package domain defines the core entities for booksynth.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FeatureVector: The numeric summary that steers synthesis
//   - ConstraintTable: Domain bounds for every feature
//   - Instance: A complete book-scanning problem definition
//   - Library: One library's books and throughput
//   - Shortfall: A realised statistic that fell short of its target
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
