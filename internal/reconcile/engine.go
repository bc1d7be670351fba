package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"reclaim/internal/assets"
	"reclaim/internal/logging"
	"reclaim/internal/media/exiftool"
	"reclaim/internal/services/indexer"
)

// Outcome classifies what reconciliation did with one asset.
type Outcome string

const (
	// OutcomeSkipped means no file was touched and no notification was sent.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeMetadataOnly means the encoded variant brought no size gain; the
	// original stays, but the asset's metadata is re-extracted.
	OutcomeMetadataOnly Outcome = "metadata-only"
	// OutcomeSwapped means the original was replaced by the transplanted
	// encoded variant.
	OutcomeSwapped Outcome = "swapped"
)

// Result reports one asset's reconciliation.
type Result struct {
	Asset          string
	Outcome        Outcome
	Reason         string
	BytesReclaimed int64
	// Err carries a per-asset recoverable failure. The run continues.
	Err error
}

// Engine drives the per-asset decision: skip, metadata-only refresh, or full
// swap with metadata transplant and atomic replace.
type Engine struct {
	transplanter exiftool.Client
	notifier     indexer.Notifier
	logger       *slog.Logger
	dryRun       bool
}

// Option configures the engine.
type Option func(*Engine)

// WithDryRun classifies assets without touching files or notifying.
func WithDryRun(enabled bool) Option {
	return func(e *Engine) {
		e.dryRun = enabled
	}
}

// New constructs an engine. A nil logger falls back to a silent one.
func New(transplanter exiftool.Client, notifier indexer.Notifier, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	engine := &Engine{
		transplanter: transplanter,
		notifier:     notifier,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Reconcile processes one candidate record. Outcomes are terminal on the
// first applicable branch; failures after the classification (transplant,
// rename, notification) are reported in Result.Err and never abort the run.
func (e *Engine) Reconcile(ctx context.Context, record assets.Record) Result {
	result := Result{Asset: record.ID, Outcome: OutcomeSkipped}

	// The stored size may be stale; Classify stats the live files.
	c := Classify(record)

	if c.Outcome == OutcomeSkipped {
		result.Reason = c.Reason
		if c.Err != nil {
			result.Err = fmt.Errorf("asset %s: %w", record.ID, c.Err)
			e.logger.Error("stat failed", logging.Asset(record.ID), logging.Error(c.Err))
			return result
		}
		e.logger.Info("skipping asset", logging.Asset(record.ID), logging.String("reason", result.Reason))
		return result
	}

	if c.Outcome == OutcomeMetadataOnly {
		result.Outcome = OutcomeMetadataOnly
		result.Reason = c.Reason
		message := "no size gain, refreshing metadata only"
		if e.dryRun {
			message = "no size gain, would refresh metadata only"
		}
		e.logger.Info(message,
			logging.Asset(record.ID),
			logging.String("original_size", humanize.Bytes(uint64(c.OriginalSize))),
			logging.String("encoded_size", humanize.Bytes(uint64(c.EncodedSize))))
		result.Err = e.notifySingle(ctx, record.ID)
		return result
	}

	if e.dryRun {
		result.Outcome = OutcomeSwapped
		result.BytesReclaimed = c.OriginalSize - c.EncodedSize
		result.Reason = "dry run"
		e.logger.Info("would swap original for encoded variant",
			logging.Asset(record.ID),
			logging.Int64("reclaimable_bytes", result.BytesReclaimed))
		return result
	}

	tmpPath, err := e.transplanter.Transplant(ctx, record.OriginalPath, record.EncodedPath)
	if err != nil {
		result.Reason = "metadata transplant failed"
		result.Err = fmt.Errorf("transplant asset %s: %w", record.ID, err)
		e.logger.Error("metadata transplant failed", logging.Asset(record.ID), logging.Error(err))
		return result
	}

	// Single rename, same filesystem: a crash here never leaves the original
	// missing alongside an incomplete replacement.
	if err := os.Rename(tmpPath, record.OriginalPath); err != nil {
		result.Reason = "atomic replace failed"
		result.Err = fmt.Errorf("replace original for asset %s: %w", record.ID, err)
		e.logger.Error("atomic replace failed",
			logging.Asset(record.ID),
			logging.String("path", record.OriginalPath),
			logging.Error(err))
		return result
	}

	result.Outcome = OutcomeSwapped
	result.BytesReclaimed = c.OriginalSize - c.EncodedSize
	e.logger.Info("swapped original for encoded variant",
		logging.Asset(record.ID),
		logging.String("path", record.OriginalPath),
		logging.String("reclaimed", humanize.Bytes(uint64(result.BytesReclaimed))))

	result.Err = e.notifySingle(ctx, record.ID)
	return result
}

func (e *Engine) notifySingle(ctx context.Context, assetID string) error {
	if e.dryRun {
		return nil
	}
	if err := e.notifier.RefreshAsset(ctx, assetID); err != nil {
		e.logger.Error("targeted refresh failed", logging.Asset(assetID), logging.Error(err))
		return fmt.Errorf("refresh asset %s: %w", assetID, err)
	}
	return nil
}
