package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"hesiod53/core/archive"
	"hesiod53/core/config"
	"hesiod53/core/logger"
	"hesiod53/core/reconcile"
	"hesiod53/core/route53"
	"hesiod53/core/storage"
	"hesiod53/feature/directory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRunSync bool

// syncCmd publishes a user file to its zone.
var syncCmd = &cobra.Command{
	Use:   "sync USER_FILE",
	Short: "Publish a user and group definition to Route53",
	Long: `Sync reads a YAML definition of users and groups, computes the Hesiod
records describing it, and makes the zone match: stale records are deleted
first, then missing ones are created, in batches of at most 50 changes.

Records outside the Hesiod suffixes of the domain are never touched.

Examples:
  # Show what would change
  hesiod53 sync users.yml --dry-run

  # Apply
  hesiod53 sync users.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Show changes without applying them")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	// Validate everything before touching the network
	src, err := directory.Load(args[0])
	if err != nil {
		return err
	}
	desired, err := src.Directory.Records(src.Domain)
	if err != nil {
		return err
	}

	l = logger.WithRun(l, src.Zone, src.Domain)
	l.Info("Starting sync",
		zap.Int("users", len(src.Directory.Users)),
		zap.Int("groups", len(src.Directory.Groups)),
		zap.Int("records", len(desired)),
	)

	store, err := route53.NewStore(ctx, cfg.Route53)
	if err != nil {
		return fmt.Errorf("failed to create route53 client: %w", err)
	}

	reconciler := reconcile.NewReconciler(store, cfg.Commit, l)
	spec := reconcile.Spec{Zone: src.Zone, Domain: src.Domain, Suffixes: directory.Suffixes}

	report := archive.NewReport(src.Zone, src.Domain, dryRunSync)
	out := cmd.OutOrStdout()

	opts := reconcile.Options{
		DryRun: dryRunSync,
		OnPlan: func(plan *reconcile.Plan) { printPlan(out, plan) },
	}

	result, err := reconciler.Run(ctx, spec, desired, opts)
	saveReport(ctx, l, cfg, report, result, err)

	if err != nil {
		var partial *reconcile.PartialApplyError
		if errors.As(err, &partial) && len(partial.Committed) > 0 {
			fmt.Fprintln(os.Stderr, "Committed before failure:")
			printBatches(os.Stderr, partial.Committed)
		}
		return err
	}

	if dryRunSync {
		fmt.Fprintln(out, "Dry run mode. Stopping.")
		return nil
	}

	fmt.Fprintln(out, "Done!")
	return nil
}

// saveReport archives the run when enabled. Failures are logged only.
func saveReport(ctx context.Context, l *zap.Logger, cfg *config.Config, report *archive.Report, result *reconcile.Result, runErr error) {
	if !cfg.Archive.Enabled {
		return
	}

	report.Finish(result, runErr)

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		l.Warn("Failed to create storage client, report not archived", zap.Error(err))
		return
	}

	name, err := archive.New(client, cfg.Storage.Bucket, cfg.Archive.Prefix).Save(ctx, report)
	if err != nil {
		l.Warn("Failed to archive report", zap.String("run_id", report.RunID), zap.Error(err))
		return
	}
	l.Info("Archived run report", zap.String("object", name))
}
