package exiftool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var commandContext = exec.CommandContext

// Client defines the metadata transplant behaviour.
type Client interface {
	// Transplant copies candidatePath to a temporary sibling of originalPath,
	// copies all metadata tags from the original onto it, and clears the
	// dimension tags that described the original's resolution. It returns the
	// temporary file's path. On failure the temporary file is left in place
	// for inspection and the caller must not move it onto the original.
	Transplant(ctx context.Context, originalPath, candidatePath string) (string, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the exiftool command-line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "exiftool"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Transplant implements Client. The temporary file is created in the
// original's directory so the caller's final rename stays on one filesystem.
func (c *CLI) Transplant(ctx context.Context, originalPath, candidatePath string) (string, error) {
	if strings.TrimSpace(originalPath) == "" {
		return "", errors.New("original path required")
	}
	if strings.TrimSpace(candidatePath) == "" {
		return "", errors.New("candidate path required")
	}

	tmpPath := tempSibling(originalPath)
	if err := copyFile(candidatePath, tmpPath); err != nil {
		return "", fmt.Errorf("stage candidate copy: %w", err)
	}

	if err := c.run(ctx, "-tagsFromFile", originalPath, "-overwrite_original", tmpPath); err != nil {
		return tmpPath, fmt.Errorf("copy tags: %w", err)
	}

	// The copied tags still describe the original's resolution. Clear them so
	// the replacement file does not misreport its dimensions.
	if err := c.run(ctx, "-ImageWidth=", "-ImageHeight=", "-overwrite_original", tmpPath); err != nil {
		return tmpPath, fmt.Errorf("clear dimension tags: %w", err)
	}

	return tmpPath, nil
}

func (c *CLI) run(ctx context.Context, args ...string) error {
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", c.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func tempSibling(originalPath string) string {
	dir := filepath.Dir(originalPath)
	base := filepath.Base(originalPath)
	return filepath.Join(dir, fmt.Sprintf(".%s.reclaim-%s", base, uuid.NewString()))
}

func copyFile(sourcePath, targetPath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dest, err := os.OpenFile(targetPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		return fmt.Errorf("copy data: %w", err)
	}
	if err := dest.Sync(); err != nil {
		dest.Close()
		return fmt.Errorf("sync destination: %w", err)
	}
	if err := dest.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return nil
}

var _ Client = (*CLI)(nil)
