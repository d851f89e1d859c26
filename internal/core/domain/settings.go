package domain

import (
	"fmt"
	"runtime"
)

// BatchSettings holds batch generation configuration.
type BatchSettings struct {
	// Workers bounds concurrent generation calls. Each call owns its RNG.
	Workers int

	// Prefix is prepended to generated instance names.
	Prefix string

	// Source labels generated rows and catalog entries.
	Source string

	// Seed is the base seed; item i uses Seed+i.
	Seed int64
}

// OutputSettings holds where generated artefacts are written.
type OutputSettings struct {
	// Dir is the directory instance files are written to.
	Dir string
}

// CatalogSettings holds catalog persistence configuration.
type CatalogSettings struct {
	// Enabled records every generated instance in the SQLite catalog.
	Enabled bool
}

// MetricsSettings holds metrics export configuration.
type MetricsSettings struct {
	// Path is a Prometheus textfile written after each batch. Empty disables export.
	Path string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Synthesis SynthesisConfig
	Batch     BatchSettings
	Output    OutputSettings
	Catalog   CatalogSettings
	Metrics   MetricsSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Synthesis: DefaultSynthesisConfig(),
		Batch: BatchSettings{
			Workers: runtime.NumCPU(),
			Prefix:  "synthetic",
			Source:  "synthetic",
			Seed:    1,
		},
		Output: OutputSettings{
			Dir: "instances",
		},
		Catalog: CatalogSettings{
			Enabled: true,
		},
	}
}

// Validate checks settings for usable values.
func (s AppSettings) Validate() error {
	if err := s.Synthesis.Validate(); err != nil {
		return err
	}
	if s.Batch.Workers < 1 {
		return fmt.Errorf("batch workers %d < 1: %w", s.Batch.Workers, ErrInvalidInput)
	}
	if s.Batch.Prefix == "" {
		return fmt.Errorf("batch prefix is empty: %w", ErrInvalidInput)
	}
	return nil
}
