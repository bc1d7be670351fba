package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
	LogDir     string `toml:"log_dir"`
}

// Database contains connection settings for the asset database.
type Database struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Name     string `toml:"name"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	SSLMode  string `toml:"ssl_mode"`
}

// Indexer contains settings for the downstream indexing service API.
type Indexer struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Reconcile contains settings for candidate selection and the file swap.
type Reconcile struct {
	// MinDimension selects assets whose recorded width and height both
	// exceed this value.
	MinDimension int `toml:"min_dimension"`
	// UploadPrefix is the logical path prefix identifying library-relative
	// assets. Paths without it are skipped.
	UploadPrefix string `toml:"upload_prefix"`
	// BulkRefresh triggers a library-wide metadata extraction after the run.
	BulkRefresh bool `toml:"bulk_refresh"`
	// ExiftoolBinary overrides the exiftool executable name.
	ExiftoolBinary string `toml:"exiftool_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Report contains configuration for the run ledger.
type Report struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config encapsulates all configuration values for Reclaim.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Database  Database  `toml:"database"`
	Indexer   Indexer   `toml:"indexer"`
	Reconcile Reconcile `toml:"reconcile"`
	Report    Report    `toml:"report"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reclaim/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reclaim.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for a run.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// ConnString returns a key/value connection string for the asset database.
func (c *Config) ConnString() string {
	parts := []string{
		fmt.Sprintf("host=%s", c.Database.Host),
		fmt.Sprintf("port=%d", c.Database.Port),
		fmt.Sprintf("dbname=%s", c.Database.Name),
		fmt.Sprintf("user=%s", c.Database.User),
	}
	if c.Database.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", c.Database.Password))
	}
	if c.Database.SSLMode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", c.Database.SSLMode))
	}
	return strings.Join(parts, " ")
}

// ExiftoolBinary returns the exiftool executable name.
func (c *Config) ExiftoolBinary() string {
	if strings.TrimSpace(c.Reconcile.ExiftoolBinary) != "" {
		return c.Reconcile.ExiftoolBinary
	}
	return "exiftool"
}

// ReportPath returns the run ledger database path.
func (c *Config) ReportPath() string {
	if strings.TrimSpace(c.Report.Path) != "" {
		return c.Report.Path
	}
	return filepath.Join(c.Paths.LogDir, "reclaim.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath resolves ~ and relative segments in a user-supplied path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
