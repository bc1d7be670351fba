package exiftool

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/exiftool"))
	if cli.binary != "/opt/exiftool" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestTransplantRequiresPaths(t *testing.T) {
	cli := NewCLI()
	if _, err := cli.Transplant(context.Background(), "", "/tmp/candidate.mov"); err == nil {
		t.Fatal("expected error when original path is empty")
	}
	if _, err := cli.Transplant(context.Background(), "/tmp/original.mov", ""); err == nil {
		t.Fatal("expected error when candidate path is empty")
	}
}

func TestTransplantCopiesCandidateAndInvokesToolTwice(t *testing.T) {
	var invocations [][]string
	setHelperCommand(t, "success", &invocations)

	dir := t.TempDir()
	original := filepath.Join(dir, "clip.mov")
	candidate := filepath.Join(dir, "clip-encoded.mp4")
	writeFile(t, original, "original-bytes")
	writeFile(t, candidate, "candidate-bytes")

	cli := NewCLI()
	tmpPath, err := cli.Transplant(context.Background(), original, candidate)
	if err != nil {
		t.Fatalf("Transplant returned error: %v", err)
	}

	if filepath.Dir(tmpPath) != dir {
		t.Fatalf("expected temp file in original's directory, got %q", tmpPath)
	}
	data, err := os.ReadFile(tmpPath)
	if err != nil {
		t.Fatalf("read temp file: %v", err)
	}
	if string(data) != "candidate-bytes" {
		t.Fatalf("temp file should hold candidate content, got %q", data)
	}

	if len(invocations) != 2 {
		t.Fatalf("expected 2 exiftool invocations, got %d", len(invocations))
	}
	first := invocations[0]
	if first[0] != "-tagsFromFile" || first[1] != original {
		t.Fatalf("first invocation should copy tags from original, got %v", first)
	}
	if first[len(first)-1] != tmpPath {
		t.Fatalf("first invocation should target temp file, got %v", first)
	}
	second := invocations[1]
	if second[0] != "-ImageWidth=" || second[1] != "-ImageHeight=" {
		t.Fatalf("second invocation should clear dimension tags, got %v", second)
	}
	if second[len(second)-1] != tmpPath {
		t.Fatalf("second invocation should target temp file, got %v", second)
	}
}

func TestTransplantFailFastOnCopyTags(t *testing.T) {
	var invocations [][]string
	setHelperCommand(t, "failure", &invocations)

	dir := t.TempDir()
	original := filepath.Join(dir, "clip.mov")
	candidate := filepath.Join(dir, "clip-encoded.mp4")
	writeFile(t, original, "original-bytes")
	writeFile(t, candidate, "candidate-bytes")

	cli := NewCLI()
	tmpPath, err := cli.Transplant(context.Background(), original, candidate)
	if err == nil {
		t.Fatal("expected transplant failure")
	}
	if !strings.Contains(err.Error(), "copy tags") {
		t.Fatalf("expected copy tags failure, got %v", err)
	}
	if len(invocations) != 1 {
		t.Fatalf("expected fail-fast after first invocation, got %d", len(invocations))
	}
	if _, statErr := os.Stat(tmpPath); statErr != nil {
		t.Fatalf("temp file should be retained for inspection: %v", statErr)
	}
}

func TestTransplantMissingCandidate(t *testing.T) {
	var invocations [][]string
	setHelperCommand(t, "success", &invocations)

	dir := t.TempDir()
	original := filepath.Join(dir, "clip.mov")
	writeFile(t, original, "original-bytes")

	cli := NewCLI()
	if _, err := cli.Transplant(context.Background(), original, filepath.Join(dir, "absent.mp4")); err == nil {
		t.Fatal("expected error for missing candidate")
	}
	if len(invocations) != 0 {
		t.Fatalf("exiftool should not run when staging fails, got %d invocations", len(invocations))
	}
}

func setHelperCommand(t *testing.T, mode string, invocations *[][]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		*invocations = append(*invocations, append([]string(nil), args...))
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("EXIFTOOL_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("EXIFTOOL_HELPER_MODE") {
	case "success":
		fmt.Println("    1 image files updated")
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "Error: File format error")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
