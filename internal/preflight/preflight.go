package preflight

import (
	"context"

	"reclaim/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config: external
// binary, library directory access, asset database, and indexer API.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	return []Result{
		CheckExiftool(cfg.ExiftoolBinary()),
		CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir),
		CheckDatabase(ctx, cfg),
		CheckIndexer(ctx, cfg.Indexer.URL, cfg.Indexer.APIKey),
	}
}
