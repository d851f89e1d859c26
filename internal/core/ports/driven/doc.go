// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - InstanceReader: Parses the instance text format
//   - InstanceWriter: Renders the instance text format
//   - FeatureStore: Feature-vector CSV persistence (the parent pool provider)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CatalogStore: Records generated instances. Without it, nothing is catalogued.
//   - MetricsRecorder: Counts generations and shortfalls. Without it, nothing is counted.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
