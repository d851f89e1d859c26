package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driving"
)

var (
	generateCount     int
	generateFromCSV   string
	generateNoCatalog bool
	generateBatch     batchFlags
	generateSynth     synthesisFlags
)

var generateCmd = &cobra.Command{
	Use:   "generate [pool.csv...]",
	Short: "Generate synthetic instances",
	Long: `Generates instances from a parent pool of feature vectors.

Each instance derives a target feature vector from the pool (crossover of two
parents or mutation of one), clamps it to the problem bounds and materializes
scores and libraries that follow it. With --from-csv, one instance is built
per row of the given feature CSV instead. Several pool CSVs are concatenated
into one pool.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 100, "number of instances to generate")
	generateCmd.Flags().StringVar(&generateFromCSV, "from-csv", "", "build one instance per row of this feature CSV")
	generateCmd.Flags().BoolVar(&generateNoCatalog, "no-catalog", false, "do not record instances in the catalog")
	generateBatch.register(generateCmd, true)
	generateSynth.register(generateCmd)
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if settingsService == nil || featureStore == nil || newBatchService == nil {
		return errors.New("generation services not configured")
	}
	if (len(args) == 0) == (generateFromCSV == "") {
		return fmt.Errorf("provide either pool CSVs or --from-csv: %w", domain.ErrInvalidInput)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	generateBatch.apply(cmd, settings)
	generateSynth.apply(cmd, &settings.Synthesis)
	if err := settings.Validate(); err != nil {
		return err
	}

	req := driving.BatchRequest{
		Count:     generateCount,
		Seed:      settings.Batch.Seed,
		Prefix:    settings.Batch.Prefix,
		Source:    settings.Batch.Source,
		OutputDir: settings.Output.Dir,
		Workers:   settings.Batch.Workers,
	}
	if generateFromCSV != "" {
		rows, err := featureStore.ReadFile(generateFromCSV)
		if err != nil {
			return fmt.Errorf("failed to read targets: %w", err)
		}
		req.Targets = rows
	} else {
		rows, err := readPools(args)
		if err != nil {
			return err
		}
		req.Pool = domain.Pool(rows)
	}

	batch, err := newBatchService(settings.Synthesis, BatchOptions{
		Catalog:     settings.Catalog.Enabled && !generateNoCatalog,
		MetricsPath: settings.Metrics.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to create batch service: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := batch.Run(ctx, req)
	if report == nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	printBatchReport(newPrinter(cmd), report, req.OutputDir)

	if err != nil {
		return fmt.Errorf("generation interrupted: %w", err)
	}
	if report.Generated == 0 && report.Failed > 0 {
		return fmt.Errorf("all %d instances failed", report.Failed)
	}
	return nil
}

// readPools concatenates the rows of every pool CSV in argument order.
func readPools(paths []string) ([]domain.FeatureRow, error) {
	var rows []domain.FeatureRow
	for _, path := range paths {
		r, err := featureStore.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read pool %s: %w", path, err)
		}
		rows = append(rows, r...)
	}
	return rows, nil
}

func printBatchReport(p *printer, report *domain.BatchReport, outputDir string) {
	p.Success(fmt.Sprintf("Generated %d instances (run %s)", report.Generated, report.RunID))
	if outputDir != "" && report.Generated > 0 {
		p.Printf("  Output: %s\n", outputDir)
	}
	if len(report.Shortfalls) > 0 {
		p.Printf("  Shortfalls: %s\n", formatShortfallCounts(report.Shortfalls))
	}
	if report.Failed > 0 {
		p.Error(fmt.Sprintf("  Failed: %d", report.Failed))
		for _, err := range report.Errors {
			p.Printf("    %v\n", err)
		}
	}
}

// formatShortfallCounts renders counts as "kind n" pairs in kind order.
func formatShortfallCounts(counts map[domain.ShortfallKind]int) string {
	kinds := make([]string, 0, len(counts))
	for kind, n := range counts {
		if n > 0 {
			kinds = append(kinds, string(kind))
		}
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s %d", kind, counts[domain.ShortfallKind(kind)]))
	}
	return strings.Join(parts, ", ")
}

// batchFlags override batch and output settings.
type batchFlags struct {
	seed    int64
	workers int
	prefix  string
	source  string
	output  string

	hasOutput bool
}

func (f *batchFlags) register(cmd *cobra.Command, withOutputDir bool) {
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "base seed; item i uses seed+i")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 1, "concurrent generation calls")
	cmd.Flags().StringVar(&f.prefix, "prefix", "synthetic", "instance name prefix")
	cmd.Flags().StringVar(&f.source, "source", "synthetic", "source label")
	f.hasOutput = withOutputDir
	if withOutputDir {
		cmd.Flags().StringVarP(&f.output, "output", "o", "", "directory to write instances to")
	}
}

// apply copies changed flags into settings. Unchanged flags keep the stored values.
func (f *batchFlags) apply(cmd *cobra.Command, settings *domain.AppSettings) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		settings.Batch.Seed = f.seed
	}
	if flags.Changed("workers") {
		settings.Batch.Workers = f.workers
	}
	if flags.Changed("prefix") {
		settings.Batch.Prefix = f.prefix
	}
	if flags.Changed("source") {
		settings.Batch.Source = f.source
	}
	if f.hasOutput && flags.Changed("output") {
		settings.Output.Dir = f.output
	}
}

// synthesisFlags override the synthesis configuration.
type synthesisFlags struct {
	strategy        string
	crossoverProb   float64
	perturbationMin float64
	perturbationMax float64
	buffer          float64
}

func (f *synthesisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.strategy, "strategy", string(domain.StrategyMixed),
		"synthesis strategy: mixed, crossover, mutation, neighborhood or random")
	cmd.Flags().Float64Var(&f.crossoverProb, "crossover-probability", domain.DefaultCrossoverProbability,
		"probability of crossover for the mixed strategy")
	cmd.Flags().Float64Var(&f.perturbationMin, "perturbation-min", domain.DefaultPerturbationMin,
		"lower bound of the mutation fraction")
	cmd.Flags().Float64Var(&f.perturbationMax, "perturbation-max", domain.DefaultPerturbationMax,
		"upper bound of the mutation fraction")
	cmd.Flags().Float64Var(&f.buffer, "neighborhood-buffer", domain.DefaultNeighborhoodBuffer,
		"absolute deviation for the neighborhood strategy")
}

func (f *synthesisFlags) apply(cmd *cobra.Command, config *domain.SynthesisConfig) {
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		config.Strategy = domain.Strategy(f.strategy)
	}
	if flags.Changed("crossover-probability") {
		config.CrossoverProbability = f.crossoverProb
	}
	if flags.Changed("perturbation-min") {
		config.PerturbationMin = f.perturbationMin
	}
	if flags.Changed("perturbation-max") {
		config.PerturbationMax = f.perturbationMax
	}
	if flags.Changed("neighborhood-buffer") {
		config.NeighborhoodBuffer = f.buffer
	}
}
