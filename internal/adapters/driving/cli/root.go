// Package cli provides the booksynth command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
	"github.com/custodia-labs/booksynth/internal/core/ports/driving"
	"github.com/custodia-labs/booksynth/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Root flags.
var (
	verbose   bool
	quiet     bool
	configDir string
)

// Services wired in by Bootstrap (or directly by tests).
var (
	settingsService   driving.SettingsService
	featureService    driving.FeatureService
	validationService driving.ValidationService
	catalogService    driving.CatalogService
	featureStore      driven.FeatureStore
	instanceReader    driven.InstanceReader
	newBatchService   BatchFactory
)

var (
	bootstrap Bootstrap
	closer    func() error
)

// BatchOptions selects the optional sinks of a batch service.
type BatchOptions struct {
	// Catalog records generated instances in the catalog store.
	Catalog bool

	// MetricsPath is the Prometheus textfile to export to. Empty disables export.
	MetricsPath string
}

// BatchFactory builds a batch service for a synthesis configuration.
// The configuration is only known once flags have been merged with settings.
type BatchFactory func(config domain.SynthesisConfig, opts BatchOptions) (driving.BatchService, error)

// Services holds everything the commands need.
type Services struct {
	Settings   driving.SettingsService
	Features   driving.FeatureService
	Validation driving.ValidationService
	Catalog    driving.CatalogService
	FeatureCSV driven.FeatureStore
	Reader     driven.InstanceReader
	NewBatch   BatchFactory

	// Close releases resources opened by Bootstrap. May be nil.
	Close func() error
}

// Bootstrap creates the services once the root flags are parsed.
type Bootstrap func(configDir string) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "booksynth",
	Short: "Synthetic book-scanning instance generator",
	Long: `booksynth derives new book-scanning problem instances from the feature
vectors of existing ones. Feature vectors are combined by crossover or
mutation, clamped to the problem bounds, and materialized into instance
files with matching score and library statistics.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress and debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress warnings")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.booksynth)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that wires services before a command runs.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices installs services directly.
func SetServices(s *Services) {
	settingsService = s.Settings
	featureService = s.Features
	validationService = s.Validation
	catalogService = s.Catalog
	featureStore = s.FeatureCSV
	instanceReader = s.Reader
	newBatchService = s.NewBatch
	closer = s.Close
}

// Execute runs the root command and releases bootstrapped resources.
func Execute() error {
	err := rootCmd.Execute()
	if closer != nil {
		if cerr := closer(); cerr != nil && err == nil {
			err = cerr
		}
		closer = nil
	}
	return err
}

func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetQuiet(quiet)

	if bootstrap == nil {
		return nil
	}
	services, err := bootstrap(configDir)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}
