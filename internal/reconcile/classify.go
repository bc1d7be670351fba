package reconcile

import (
	"errors"
	"fmt"
	"os"

	"reclaim/internal/assets"
)

// Classification is the action a candidate record would get right now, based
// on path resolution and live file sizes.
type Classification struct {
	Outcome Outcome
	Reason  string
	// OriginalSize and EncodedSize are live byte sizes, populated once both
	// files have been stat'ed.
	OriginalSize int64
	EncodedSize  int64
	// Err is set for stat failures other than a missing file.
	Err error
}

// Classify decides between skip, metadata-only, and swap for one record.
// Beyond stat calls it has no side effects; Reconcile and the plan output
// both build on it so the two can never disagree.
func Classify(record assets.Record) Classification {
	if !record.Resolved() {
		return Classification{Outcome: OutcomeSkipped, Reason: "path doesn't match library convention"}
	}

	originalInfo, err := os.Stat(record.OriginalPath)
	if err != nil {
		return statClassification("original", record.OriginalPath, err)
	}
	encodedInfo, err := os.Stat(record.EncodedPath)
	if err != nil {
		return statClassification("encoded", record.EncodedPath, err)
	}

	c := Classification{OriginalSize: originalInfo.Size(), EncodedSize: encodedInfo.Size()}
	if c.EncodedSize >= c.OriginalSize {
		c.Outcome = OutcomeMetadataOnly
		c.Reason = "encoded variant not smaller"
		return c
	}
	c.Outcome = OutcomeSwapped
	return c
}

func statClassification(which, path string, statErr error) Classification {
	if errors.Is(statErr, os.ErrNotExist) {
		return Classification{Outcome: OutcomeSkipped, Reason: "missing files"}
	}
	return Classification{
		Outcome: OutcomeSkipped,
		Reason:  "stat failed",
		Err:     fmt.Errorf("stat %s file %s: %w", which, path, statErr),
	}
}
