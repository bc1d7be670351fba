package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"reclaim/internal/assets"
	"reclaim/internal/config"
	"reclaim/internal/logging"
	"reclaim/internal/media/exiftool"
	"reclaim/internal/reconcile"
	"reclaim/internal/report"
	"reclaim/internal/services/indexer"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var noBulkRefresh bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile the library: swap oversized originals and refresh metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return runReconciliation(cmd.Context(), cfg, logger, cmd.OutOrStdout(), dryRun, noBulkRefresh)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify candidates without touching files or notifying")
	cmd.Flags().BoolVar(&noBulkRefresh, "no-bulk-refresh", false, "Skip the library-wide metadata extraction at the end of the run")
	return cmd
}

func runReconciliation(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer, dryRun, noBulkRefresh bool) error {
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "reclaim.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return errors.New("another reclaim run is already in progress")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	source, err := assets.NewSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer source.Close()

	records, err := source.FetchCandidates(ctx)
	if err != nil {
		return err
	}

	notifier := indexer.NewConfiguredClient(cfg)
	transplanter := exiftool.NewCLI(exiftool.WithBinary(cfg.ExiftoolBinary()))
	return processRecords(ctx, cfg, logger, out, records, transplanter, notifier, dryRun, noBulkRefresh)
}

// processRecords drives the engine over already-fetched candidates. The bulk
// refresh failure at the end is the run's only fatal error past this point;
// everything per-asset is recoverable.
func processRecords(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer, records []assets.Record, transplanter exiftool.Client, notifier indexer.Notifier, dryRun, noBulkRefresh bool) error {
	fmt.Fprintf(out, "found %d large videos to reconcile\n", len(records))

	var store *report.Store
	var runID int64
	if cfg.Report.Enabled && !dryRun {
		opened, err := report.Open(cfg.ReportPath())
		if err != nil {
			logger.Warn("run ledger unavailable", logging.Error(err))
		} else {
			defer opened.Close()
			runID, err = opened.StartRun(ctx, len(records))
			if err != nil {
				logger.Warn("run ledger unavailable", logging.Error(err))
			} else {
				store = opened
			}
		}
	}

	engine := reconcile.New(transplanter, notifier, logger, reconcile.WithDryRun(dryRun))

	var totals report.Totals
	for _, record := range records {
		result := engine.Reconcile(ctx, record)
		tallyResult(&totals, result)
		if store != nil {
			detail := result.Reason
			if result.Err != nil {
				detail = result.Err.Error()
			}
			if err := store.Append(ctx, runID, result.Asset, string(result.Outcome), detail, result.BytesReclaimed); err != nil {
				logger.Warn("record outcome", logging.Asset(result.Asset), logging.Error(err))
			}
		}
	}

	if store != nil {
		if err := store.FinishRun(ctx, runID, totals); err != nil {
			logger.Warn("finalize run ledger", logging.Error(err))
		}
		fmt.Fprintf(out, "run ledger: %s\n", store.Path())
	}

	writeSummary(out, len(records), totals, dryRun)

	if cfg.Reconcile.BulkRefresh && !noBulkRefresh && !dryRun {
		if err := notifier.RefreshAll(ctx); err != nil {
			return fmt.Errorf("bulk metadata refresh: %w", err)
		}
		fmt.Fprintln(out, "library-wide metadata extraction started")
	}

	return nil
}

func tallyResult(totals *report.Totals, result reconcile.Result) {
	switch result.Outcome {
	case reconcile.OutcomeSwapped:
		totals.Swapped++
		totals.BytesReclaimed += result.BytesReclaimed
	case reconcile.OutcomeMetadataOnly:
		totals.MetadataOnly++
	default:
		totals.Skipped++
	}
	if result.Err != nil {
		totals.Failed++
	}
}
