// Command booksynth generates synthetic book-scanning instances.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/booksynth/internal/adapters/driven/codec"
	"github.com/custodia-labs/booksynth/internal/adapters/driven/config/file"
	"github.com/custodia-labs/booksynth/internal/adapters/driven/featurecsv"
	"github.com/custodia-labs/booksynth/internal/adapters/driven/metrics"
	"github.com/custodia-labs/booksynth/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/booksynth/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/booksynth/internal/adapters/driving/cli"
	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
	"github.com/custodia-labs/booksynth/internal/core/ports/driving"
	"github.com/custodia-labs/booksynth/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

func bootstrap(configDir string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dataDir := ""
	if configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	catalog := store.CatalogStore()

	instances := codec.New()

	return &cli.Services{
		Settings:   services.NewSettingsService(configStore),
		Features:   services.NewFeatureService(instances),
		Validation: services.NewValidationService(instances),
		Catalog:    services.NewCatalogService(catalog),
		FeatureCSV: featurecsv.NewStore(),
		Reader:     instances,
		NewBatch: func(config domain.SynthesisConfig, opts cli.BatchOptions) (driving.BatchService, error) {
			if err := config.Validate(); err != nil {
				return nil, err
			}

			// Runs outside the catalog are still tracked for the lifetime of the process.
			var runCatalog driven.CatalogStore = memory.NewCatalogStore()
			if opts.Catalog {
				runCatalog = catalog
			}

			recorder := metrics.Nop()
			if opts.MetricsPath != "" {
				recorder = metrics.New(opts.MetricsPath)
			}

			return services.NewBatchService(services.NewGenerator(config), instances, runCatalog, recorder), nil
		},
		Close: store.Close,
	}, nil
}
