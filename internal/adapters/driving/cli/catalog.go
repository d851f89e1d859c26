package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse previously generated instances",
	Long: `Every generate run records its instances in the catalog together with
the target features and any shortfalls. Use subcommands to list runs,
show their instances or forget a run.`,
	RunE: runCatalogList,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generation runs, most recent first",
	RunE:  runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <run-id> [name]",
	Short: "Show the instances of a run, or one instance",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCatalogShow,
}

var catalogForgetCmd = &cobra.Command{
	Use:   "forget <run-id>",
	Short: "Remove a run from the catalog",
	Long:  `Removes a run from the catalog. Instance files on disk are left alone.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogForget,
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogForgetCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	ctx := context.Background()
	runs, err := catalogService.Runs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	p := newPrinter(cmd)
	if len(runs) == 0 {
		p.Muted("No runs recorded.")
		return nil
	}

	p.Title("Runs")
	for _, runID := range runs {
		entries, err := catalogService.Entries(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to list run %s: %w", runID, err)
		}
		first := entries[0]
		cmd.Printf("  %s  %4d instances  %s  %s\n", runID, len(entries), first.Source,
			first.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	ctx := context.Background()
	if len(args) == 2 {
		entry, err := catalogService.Entry(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", args[1], err)
		}
		printCatalogEntry(newPrinter(cmd), entry)
		return nil
	}

	entries, err := catalogService.Entries(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to list run %s: %w", args[0], err)
	}

	p := newPrinter(cmd)
	p.Title("Run " + args[0])
	cmd.Printf("  %-24s %-12s %8s %8s %10s\n", "NAME", "STRATEGY", "BOOKS", "LIBS", "SHORTFALLS")
	for i := range entries {
		e := &entries[i]
		cmd.Printf("  %-24s %-12s %8d %8d %10d\n", e.Name, e.Strategy,
			e.Features.Int(domain.FeatureNumBooks),
			e.Features.Int(domain.FeatureNumLibraries),
			len(e.Shortfalls))
	}
	return nil
}

func printCatalogEntry(p *printer, e *domain.CatalogEntry) {
	p.Title(e.Name)
	p.Printf("  Run: %s\n", e.RunID)
	p.Printf("  Source: %s\n", e.Source)
	p.Printf("  Strategy: %s\n", e.Strategy)
	p.Printf("  Created: %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
	if e.Path != "" {
		p.Printf("  Path: %s\n", e.Path)
	}
	p.Printf("\n[Target features]\n")
	for _, name := range domain.FeatureNames {
		p.Printf("  %-26s %s\n", name, formatFeature(name, e.Features[name]))
	}
	if len(e.Shortfalls) > 0 {
		p.Printf("\n")
		p.Warning(fmt.Sprintf("[Shortfalls: %d]", len(e.Shortfalls)))
		for _, s := range e.Shortfalls {
			p.Printf("  - %s\n", s)
		}
	}
}

func runCatalogForget(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	if err := catalogService.Forget(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to forget run %s: %w", args[0], err)
	}
	cmd.Printf("Forgot run %s\n", args[0])
	return nil
}
