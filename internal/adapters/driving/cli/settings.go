package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the defaults used by generate and features.

Command line flags override these values for a single run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Long: `Change a single setting. Keys use dotted names, for example:

  booksynth settings set synthesis.strategy crossover
  booksynth settings set batch.workers 8
  booksynth settings set catalog.enabled false`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	p := newPrinter(cmd)
	p.Title("Current Settings")

	cmd.Println("[Synthesis]")
	cmd.Printf("  Strategy: %s\n", settings.Synthesis.Strategy.Description())
	cmd.Printf("  Crossover probability: %.2f\n", settings.Synthesis.CrossoverProbability)
	cmd.Printf("  Perturbation range: [%.2f, %.2f]\n",
		settings.Synthesis.PerturbationMin, settings.Synthesis.PerturbationMax)
	cmd.Printf("  Neighborhood buffer: %.2f\n", settings.Synthesis.NeighborhoodBuffer)
	cmd.Println()

	cmd.Println("[Batch]")
	cmd.Printf("  Workers: %d\n", settings.Batch.Workers)
	cmd.Printf("  Prefix: %s\n", settings.Batch.Prefix)
	cmd.Printf("  Source: %s\n", settings.Batch.Source)
	cmd.Printf("  Seed: %d\n", settings.Batch.Seed)
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Directory: %s\n", settings.Output.Dir)
	cmd.Println()

	cmd.Println("[Catalog]")
	if settings.Catalog.Enabled {
		cmd.Println("  Enabled: yes")
	} else {
		cmd.Println("  Enabled: no")
	}
	cmd.Println()

	cmd.Println("[Metrics]")
	if settings.Metrics.Path != "" {
		cmd.Printf("  Textfile: %s\n", settings.Metrics.Path)
	} else {
		cmd.Println("  Textfile: (disabled)")
	}
	cmd.Println()

	if err := settings.Validate(); err != nil {
		p.Warning(fmt.Sprintf("Warning: %v", err))
	} else {
		p.Muted("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("%w\nvalid keys: %s", err, strings.Join(settingsService.Keys(), ", "))
		}
		return fmt.Errorf("failed to save setting: %w", err)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}
