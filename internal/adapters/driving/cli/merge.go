package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var mergeOutput string

var mergeCmd = &cobra.Command{
	Use:   "merge <features.csv>...",
	Short: "Concatenate feature CSVs into one",
	Long: `Reads every given feature CSV and writes their rows, in argument order,
as a single feature CSV. Useful for building one parent pool from the
extracts of several corpora.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "feature CSV to write (default stdout)")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	if featureStore == nil {
		return errors.New("feature store not configured")
	}

	rows, err := readPools(args)
	if err != nil {
		return err
	}

	if mergeOutput == "" {
		return featureStore.WriteRows(cmd.OutOrStdout(), rows)
	}
	if err := featureStore.WriteFile(mergeOutput, rows); err != nil {
		return fmt.Errorf("failed to write features: %w", err)
	}
	newPrinter(cmd).Success(fmt.Sprintf("Merged %d files (%d rows) into %s", len(args), len(rows), mergeOutput))
	return nil
}
