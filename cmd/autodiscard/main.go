// Command autodiscard runs a single auto-discard sweep, for use from cron or
// by an operator. It prints the affected items and exits.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ironthroneruler/lostandfound/internal/config"
	"github.com/ironthroneruler/lostandfound/internal/database"
	"github.com/ironthroneruler/lostandfound/internal/logging"
	"github.com/ironthroneruler/lostandfound/internal/scheduler"
	"github.com/ironthroneruler/lostandfound/internal/services"
	"github.com/spf13/cobra"
)

func main() {
	var days int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "autodiscard",
		Short: "Discard items that have been unclaimed past the threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), days, dryRun)
		},
	}
	cmd.Flags().IntVar(&days, "days", 90, "discard items unclaimed for this many days")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be discarded without discarding")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, days int, dryRun bool) error {
	logging.Setup()
	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	itemService := services.NewItemService(database.DB, cfg.ReportAutoApprove)
	sweep := scheduler.New(database.DB, itemService, cfg.DiscardInterval, cfg.DiscardThresholdDays)

	report, err := sweep.Run(ctx, days, dryRun)
	if err != nil {
		return err
	}

	if len(report.Eligible) == 0 {
		fmt.Printf("No items found that are unclaimed for %d+ days.\n", report.ThresholdDays)
		return nil
	}

	fmt.Printf("Found %d items eligible for auto-discard:\n", len(report.Eligible))
	for _, item := range report.Eligible {
		fmt.Printf("  - %s (ID: %s) - %d days old - Status: %s\n", item.Name, item.ID, item.DaysOld, item.Status)
	}

	if dryRun {
		fmt.Println("\n[DRY RUN] No items were actually discarded.")
		return nil
	}

	fmt.Printf("\nDiscarded %d items (%d failed).\n", report.Discarded, report.Failed)
	if report.Failed > 0 {
		slog.Warn("some items failed to discard", "failed", report.Failed)
	}
	return nil
}
