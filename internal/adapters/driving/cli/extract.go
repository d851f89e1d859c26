package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var extractOutput string

var extractCmd = &cobra.Command{
	Use:   "extract <dir>",
	Short: "Extract feature vectors from existing instances",
	Long: `Parses every *.txt instance below a directory and writes its nine core
features as a feature CSV. The result can be used as a parent pool for
generate and features.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "feature CSV to write (default stdout)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if featureService == nil || featureStore == nil {
		return errors.New("feature services not configured")
	}

	rows, err := featureService.ExtractDir(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if extractOutput == "" {
		return featureStore.WriteRows(cmd.OutOrStdout(), rows)
	}
	if err := featureStore.WriteFile(extractOutput, rows); err != nil {
		return fmt.Errorf("failed to write features: %w", err)
	}
	cmd.Printf("Extracted %d instances to %s\n", len(rows), extractOutput)
	return nil
}
