package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/booksynth/internal/adapters/driven/codec"
	"github.com/custodia-labs/booksynth/internal/adapters/driven/featurecsv"
	"github.com/custodia-labs/booksynth/internal/adapters/driven/metrics"
	"github.com/custodia-labs/booksynth/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
	"github.com/custodia-labs/booksynth/internal/core/ports/driving"
	"github.com/custodia-labs/booksynth/internal/core/services"
)

// testEnv wires real services over in-memory stores.
type testEnv struct {
	settings *services.SettingsService
	catalog  *memory.CatalogStore
	csv      *featurecsv.Store
	codec    *codec.Codec
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		settings: services.NewSettingsService(memory.NewConfigStore()),
		catalog:  memory.NewCatalogStore(),
		csv:      featurecsv.NewStore(),
		codec:    codec.New(),
	}

	SetServices(&Services{
		Settings:   env.settings,
		Features:   services.NewFeatureService(env.codec),
		Validation: services.NewValidationService(env.codec),
		Catalog:    services.NewCatalogService(env.catalog),
		FeatureCSV: env.csv,
		Reader:     env.codec,
		NewBatch: func(config domain.SynthesisConfig, opts BatchOptions) (driving.BatchService, error) {
			var catalog driven.CatalogStore
			if opts.Catalog {
				catalog = env.catalog
			}
			return services.NewBatchService(services.NewGenerator(config), env.codec, catalog, metrics.Nop()), nil
		},
	})
	t.Cleanup(func() { SetServices(&Services{}) })
	return env
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func poolRows() []domain.FeatureRow {
	return []domain.FeatureRow{
		{Name: "a.txt", Source: "corpus", Features: domain.FeatureVector{
			domain.FeatureNumBooks: 100, domain.FeatureNumLibraries: 5, domain.FeatureNumDays: 20,
			domain.FeatureAverageBookScore: 300, domain.FeatureVarianceBookScore: 1000,
			domain.FeatureBooksPerLibraryAvg: 20, domain.FeatureSignupTimeAvg: 3,
			domain.FeatureShippingsPerLibrary: 2, domain.FeatureBookDuplicationRate: 10,
		}},
		{Name: "b.txt", Source: "corpus", Features: domain.FeatureVector{
			domain.FeatureNumBooks: 40, domain.FeatureNumLibraries: 3, domain.FeatureNumDays: 8,
			domain.FeatureAverageBookScore: 50, domain.FeatureVarianceBookScore: 400,
			domain.FeatureBooksPerLibraryAvg: 10, domain.FeatureSignupTimeAvg: 2,
			domain.FeatureShippingsPerLibrary: 1, domain.FeatureBookDuplicationRate: 0,
		}},
	}
}

func writePool(t *testing.T, env *testEnv, rows []domain.FeatureRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pool.csv")
	require.NoError(t, env.csv.WriteFile(path, rows))
	return path
}

func sampleInstance() *domain.Instance {
	return &domain.Instance{
		NumBooks:     6,
		NumLibraries: 2,
		NumDays:      7,
		BookScores:   []int{1, 2, 3, 4, 5, 6},
		Libraries: []domain.Library{
			{ID: 0, BookIDs: []int{0, 1, 2}, SignupDays: 2, BooksPerDay: 1, TotalBooks: 3},
			{ID: 1, BookIDs: []int{2, 3}, SignupDays: 4, BooksPerDay: 3, TotalBooks: 2},
		},
	}
}
