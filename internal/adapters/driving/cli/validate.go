package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate <instance.txt>...",
	Short: "Check instances against the problem constraints",
	Long: `Parses each instance file and reports every violated constraint:
dimension bounds, score range, declared library sizes, duplicate or
out-of-range book ids and the total book ceiling.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validationService == nil {
		return errors.New("validation service not configured")
	}

	p := newPrinter(cmd)
	invalid := 0
	for _, path := range args {
		report, err := validationService.ValidateFile(path)
		if err != nil {
			invalid++
			p.Error(fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if report.Valid() {
			p.Success(path + ": valid")
			continue
		}
		invalid++
		p.Error(fmt.Sprintf("%s: %d violations", path, len(report.Violations)))
		for _, v := range report.Violations {
			p.Printf("  - %s\n", v)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d instances failed: %w", invalid, len(args), domain.ErrInvalidInstance)
	}
	return nil
}
