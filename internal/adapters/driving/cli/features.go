package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

var (
	featuresCount  int
	featuresOutput string
	featuresBatch  batchFlags
	featuresSynth  synthesisFlags
)

var featuresCmd = &cobra.Command{
	Use:   "features <pool.csv>...",
	Short: "Synthesize feature vectors without building instances",
	Long: `Derives target feature vectors from a parent pool and writes them as a
feature CSV. Row i matches the features of instance i that generate would
build with the same seed and settings. Several pool CSVs are concatenated
into one pool.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFeatures,
}

func init() {
	featuresCmd.Flags().IntVarP(&featuresCount, "count", "n", 100, "number of feature rows to synthesize")
	featuresCmd.Flags().StringVarP(&featuresOutput, "output", "o", "", "feature CSV to write (default stdout)")
	featuresBatch.register(featuresCmd, false)
	featuresSynth.register(featuresCmd)
	rootCmd.AddCommand(featuresCmd)
}

func runFeatures(cmd *cobra.Command, args []string) error {
	if settingsService == nil || featureStore == nil || newBatchService == nil {
		return errors.New("generation services not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	featuresBatch.apply(cmd, settings)
	featuresSynth.apply(cmd, &settings.Synthesis)
	if err := settings.Validate(); err != nil {
		return err
	}

	rows, err := readPools(args)
	if err != nil {
		return err
	}

	batch, err := newBatchService(settings.Synthesis, BatchOptions{})
	if err != nil {
		return fmt.Errorf("failed to create batch service: %w", err)
	}

	synthesized, err := batch.SynthesizeRows(context.Background(), domain.Pool(rows),
		featuresCount, settings.Batch.Seed, settings.Batch.Prefix, settings.Batch.Source)
	if err != nil {
		return fmt.Errorf("feature synthesis failed: %w", err)
	}

	if featuresOutput == "" {
		return featureStore.WriteRows(cmd.OutOrStdout(), synthesized)
	}
	if err := featureStore.WriteFile(featuresOutput, synthesized); err != nil {
		return fmt.Errorf("failed to write features: %w", err)
	}
	cmd.Printf("Wrote %d feature rows to %s\n", len(synthesized), featuresOutput)
	return nil
}
