package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <instance.txt>",
	Short: "Show descriptive statistics of an instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if featureService == nil || instanceReader == nil {
		return errors.New("feature services not configured")
	}

	inst, err := instanceReader.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read instance: %w", err)
	}
	summary := featureService.Summarize(inst)

	if inspectJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal statistics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	p := newPrinter(cmd)
	p.Title(args[0])

	cmd.Println("[Features]")
	for _, name := range domain.FeatureNames {
		cmd.Printf("  %-26s %s\n", name, formatFeature(name, summary.Core[name]))
	}
	cmd.Println()

	cmd.Println("[Scores]")
	cmd.Printf("  Sum: %.0f  Median: %.2f  Skew: %.4f\n",
		summary.SumBookScores, summary.BookScoreMedian, summary.BookScoreSkew)
	cmd.Println("[Books per library]")
	cmd.Printf("  Median: %.2f  Skew: %.4f\n", summary.BooksPerLibMed, summary.BooksPerLibSkew)
	cmd.Println("[Signup days]")
	cmd.Printf("  Variance: %.2f  Median: %.2f  Skew: %.4f\n",
		summary.SignupVariance, summary.SignupMedian, summary.SignupSkew)
	cmd.Println("[Books per day]")
	cmd.Printf("  Variance: %.2f  Median: %.2f  Skew: %.4f\n",
		summary.ShippingVariance, summary.ShippingMedian, summary.ShippingSkew)
	cmd.Println("[Libraries per book]")
	cmd.Printf("  Mean: %.4f  Variance: %.4f\n", summary.LibsPerBookMean, summary.LibsPerBookVar)
	return nil
}

// formatFeature prints integer features without decimals.
func formatFeature(name string, v float64) string {
	if domain.IsIntegerFeature(name) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4f", v)
}
