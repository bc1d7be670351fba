package reconcile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reclaim/internal/assets"
	"reclaim/internal/logging"
	"reclaim/internal/testsupport"
)

type transplantCall struct {
	original  string
	candidate string
}

type fakeTransplanter struct {
	calls []transplantCall
	fail  bool
}

func (f *fakeTransplanter) Transplant(_ context.Context, originalPath, candidatePath string) (string, error) {
	f.calls = append(f.calls, transplantCall{original: originalPath, candidate: candidatePath})
	tmpPath := filepath.Join(filepath.Dir(originalPath), ".tmp-transplant")
	if f.fail {
		return tmpPath, errors.New("exiftool exited with status 1")
	}
	data, err := os.ReadFile(candidatePath)
	if err != nil {
		return "", err
	}
	content := append([]byte("transplanted:"), data...)
	if err := os.WriteFile(tmpPath, content, 0o644); err != nil {
		return "", err
	}
	return tmpPath, nil
}

type fakeNotifier struct {
	singles    []string
	bulkCalls  int
	failSingle bool
}

func (f *fakeNotifier) RefreshAsset(_ context.Context, assetID string) error {
	f.singles = append(f.singles, assetID)
	if f.failSingle {
		return errors.New("indexer returned 500")
	}
	return nil
}

func (f *fakeNotifier) RefreshAll(context.Context) error {
	f.bulkCalls++
	return nil
}

func newTestRecord(t *testing.T, originalSize, encodedSize int64) (assets.Record, string) {
	t.Helper()
	dir := t.TempDir()
	original := filepath.Join(dir, "clip.mov")
	encoded := filepath.Join(dir, "encoded", "clip.mp4")
	testsupport.WriteFile(t, original, originalSize)
	testsupport.WriteFile(t, encoded, encodedSize)
	return assets.Record{
		ID:           "asset-1",
		OriginalPath: original,
		EncodedPath:  encoded,
		Width:        3840,
		Height:       2160,
		SizeBytes:    originalSize,
	}, dir
}

func snapshotDir(t *testing.T, dir string) map[string]int64 {
	t.Helper()
	snapshot := make(map[string]int64)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			snapshot[path] = info.Size()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return snapshot
}

func TestReconcileSkipsUnresolvedPaths(t *testing.T) {
	transplanter := &fakeTransplanter{}
	notifier := &fakeNotifier{}
	engine := New(transplanter, notifier, nil)

	record := assets.Record{ID: "asset-1", OriginalPath: "/srv/library/clip.mov"}
	result := engine.Reconcile(context.Background(), record)

	if result.Outcome != OutcomeSkipped {
		t.Fatalf("expected skipped, got %s", result.Outcome)
	}
	if result.Err != nil {
		t.Fatalf("skip is not an error: %v", result.Err)
	}
	if len(notifier.singles) != 0 {
		t.Fatalf("no notification expected, got %v", notifier.singles)
	}
	if len(transplanter.calls) != 0 {
		t.Fatal("transplant must not run for unresolved paths")
	}
}

func TestReconcileSkipsMissingOriginal(t *testing.T) {
	record, _ := newTestRecord(t, 3_000_000, 1_000_000)
	if err := os.Remove(record.OriginalPath); err != nil {
		t.Fatalf("remove original: %v", err)
	}

	notifier := &fakeNotifier{}
	engine := New(&fakeTransplanter{}, notifier, nil)
	result := engine.Reconcile(context.Background(), record)

	if result.Outcome != OutcomeSkipped {
		t.Fatalf("expected skipped, got %s", result.Outcome)
	}
	if result.Reason != "missing files" {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}
	if len(notifier.singles) != 0 {
		t.Fatalf("no notification expected, got %v", notifier.singles)
	}
}

func TestReconcileSkipIsIdempotent(t *testing.T) {
	record, dir := newTestRecord(t, 3_000_000, 1_000_000)
	if err := os.Remove(record.EncodedPath); err != nil {
		t.Fatalf("remove encoded: %v", err)
	}
	before := snapshotDir(t, dir)

	engine := New(&fakeTransplanter{}, &fakeNotifier{}, nil)
	first := engine.Reconcile(context.Background(), record)
	second := engine.Reconcile(context.Background(), record)

	if first.Outcome != OutcomeSkipped || second.Outcome != OutcomeSkipped {
		t.Fatalf("expected both runs skipped, got %s then %s", first.Outcome, second.Outcome)
	}
	if first.Reason != second.Reason {
		t.Fatalf("expected identical outcomes, got %q then %q", first.Reason, second.Reason)
	}
	after := snapshotDir(t, dir)
	if len(before) != len(after) {
		t.Fatalf("filesystem changed across skip runs: %v vs %v", before, after)
	}
	for path, size := range before {
		if after[path] != size {
			t.Fatalf("file %s changed size: %d -> %d", path, size, after[path])
		}
	}
}

func TestReconcileNoGainRefreshesMetadataOnly(t *testing.T) {
	record, _ := newTestRecord(t, 3_000_000, 5_000_000)
	originalBefore, err := os.ReadFile(record.OriginalPath)
	if err != nil {
		t.Fatalf("read original: %v", err)
	}

	transplanter := &fakeTransplanter{}
	notifier := &fakeNotifier{}
	engine := New(transplanter, notifier, nil)
	result := engine.Reconcile(context.Background(), record)

	if result.Outcome != OutcomeMetadataOnly {
		t.Fatalf("expected metadata-only, got %s", result.Outcome)
	}
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(transplanter.calls) != 0 {
		t.Fatal("transplant must not run without a size gain")
	}
	if len(notifier.singles) != 1 || notifier.singles[0] != record.ID {
		t.Fatalf("expected one targeted refresh for %s, got %v", record.ID, notifier.singles)
	}
	originalAfter, err := os.ReadFile(record.OriginalPath)
	if err != nil {
		t.Fatalf("read original: %v", err)
	}
	if string(originalBefore) != string(originalAfter) {
		t.Fatal("original must be untouched in metadata-only outcome")
	}
}

func TestReconcileSwapsSmallerEncodedVariant(t *testing.T) {
	record, _ := newTestRecord(t, 3_000_000, 1_000_000)

	transplanter := &fakeTransplanter{}
	notifier := &fakeNotifier{}
	engine := New(transplanter, notifier, nil)
	result := engine.Reconcile(context.Background(), record)

	if result.Outcome != OutcomeSwapped {
		t.Fatalf("expected swapped, got %s", result.Outcome)
	}
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.BytesReclaimed != 2_000_000 {
		t.Fatalf("unexpected reclaimed bytes: %d", result.BytesReclaimed)
	}
	if len(transplanter.calls) != 1 {
		t.Fatalf("expected one transplant, got %d", len(transplanter.calls))
	}
	call := transplanter.calls[0]
	if call.original != record.OriginalPath || call.candidate != record.EncodedPath {
		t.Fatalf("unexpected transplant arguments: %+v", call)
	}

	data, err := os.ReadFile(record.OriginalPath)
	if err != nil {
		t.Fatalf("read replaced original: %v", err)
	}
	if len(data) == 0 || string(data[:13]) != "transplanted:" {
		t.Fatal("original should hold the transplanted temp file's content")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(record.OriginalPath), ".tmp-transplant")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("temp file should be gone after the rename")
	}
	if len(notifier.singles) != 1 || notifier.singles[0] != record.ID {
		t.Fatalf("expected one targeted refresh for %s, got %v", record.ID, notifier.singles)
	}
}

func TestReconcileTransplantFailureLeavesOriginalUntouched(t *testing.T) {
	record, _ := newTestRecord(t, 3_000_000, 1_000_000)
	before, err := os.Stat(record.OriginalPath)
	if err != nil {
		t.Fatalf("stat original: %v", err)
	}

	transplanter := &fakeTransplanter{fail: true}
	notifier := &fakeNotifier{}
	engine := New(transplanter, notifier, nil)
	result := engine.Reconcile(context.Background(), record)

	if result.Outcome != OutcomeSkipped {
		t.Fatalf("expected skipped after transplant failure, got %s", result.Outcome)
	}
	if result.Err == nil {
		t.Fatal("expected per-asset error")
	}
	after, err := os.Stat(record.OriginalPath)
	if err != nil {
		t.Fatalf("stat original: %v", err)
	}
	if before.Size() != after.Size() || !before.ModTime().Equal(after.ModTime()) {
		t.Fatal("original must be untouched when the transplant fails")
	}
	if len(notifier.singles) != 0 {
		t.Fatalf("no notification expected, got %v", notifier.singles)
	}
}

func TestReconcileNotifyFailureIsRecoverable(t *testing.T) {
	record, _ := newTestRecord(t, 3_000_000, 1_000_000)

	notifier := &fakeNotifier{failSingle: true}
	engine := New(&fakeTransplanter{}, notifier, nil)
	result := engine.Reconcile(context.Background(), record)

	if result.Outcome != OutcomeSwapped {
		t.Fatalf("swap should stand despite notify failure, got %s", result.Outcome)
	}
	if result.Err == nil {
		t.Fatal("expected per-asset error for failed notification")
	}
}

func TestReconcileDryRunNoGainLogsProjection(t *testing.T) {
	record, _ := newTestRecord(t, 3_000_000, 5_000_000)

	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}

	notifier := &fakeNotifier{}
	engine := New(&fakeTransplanter{}, notifier, logger, WithDryRun(true))
	result := engine.Reconcile(context.Background(), record)

	if result.Outcome != OutcomeMetadataOnly {
		t.Fatalf("expected metadata-only, got %s", result.Outcome)
	}
	if len(notifier.singles) != 0 {
		t.Fatalf("dry run must not notify, got %v", notifier.singles)
	}
	out := buf.String()
	if !strings.Contains(out, "would refresh metadata only") {
		t.Fatalf("dry run log should project the refresh, got:\n%s", out)
	}
	if strings.Contains(out, "refreshing metadata only") {
		t.Fatalf("dry run log must not claim a refresh was sent:\n%s", out)
	}
}

func TestReconcileDryRunHasNoSideEffects(t *testing.T) {
	record, dir := newTestRecord(t, 3_000_000, 1_000_000)
	before := snapshotDir(t, dir)

	transplanter := &fakeTransplanter{}
	notifier := &fakeNotifier{}
	engine := New(transplanter, notifier, nil, WithDryRun(true))
	result := engine.Reconcile(context.Background(), record)

	if result.Outcome != OutcomeSwapped {
		t.Fatalf("dry run should project the swap, got %s", result.Outcome)
	}
	if result.BytesReclaimed != 2_000_000 {
		t.Fatalf("unexpected projected reclaim: %d", result.BytesReclaimed)
	}
	if len(transplanter.calls) != 0 {
		t.Fatal("dry run must not transplant")
	}
	if len(notifier.singles) != 0 {
		t.Fatal("dry run must not notify")
	}
	after := snapshotDir(t, dir)
	if fmt.Sprint(before) != fmt.Sprint(after) {
		t.Fatalf("filesystem changed in dry run: %v vs %v", before, after)
	}
}
