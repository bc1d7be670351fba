package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDatabase()
	c.normalizeIndexer()
	c.normalizeReconcile()
	if err := c.normalizeReport(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDatabase() {
	c.Database.Host = strings.TrimSpace(c.Database.Host)
	if c.Database.Host == "" {
		c.Database.Host = defaultDBHost
	}
	if c.Database.Port <= 0 {
		c.Database.Port = defaultDBPort
	}
	c.Database.Name = strings.TrimSpace(c.Database.Name)
	c.Database.User = strings.TrimSpace(c.Database.User)
	if c.Database.Password == "" {
		if value, ok := os.LookupEnv("RECLAIM_DB_PASSWORD"); ok {
			c.Database.Password = value
		}
	}
	c.Database.SSLMode = strings.ToLower(strings.TrimSpace(c.Database.SSLMode))
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = defaultSSLMode
	}
}

func (c *Config) normalizeIndexer() {
	c.Indexer.URL = strings.TrimRight(strings.TrimSpace(c.Indexer.URL), "/")
	c.Indexer.APIKey = strings.TrimSpace(c.Indexer.APIKey)
	if c.Indexer.APIKey == "" {
		if value, ok := os.LookupEnv("RECLAIM_API_KEY"); ok {
			c.Indexer.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Indexer.RequestTimeout <= 0 {
		c.Indexer.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeReconcile() {
	if c.Reconcile.MinDimension <= 0 {
		c.Reconcile.MinDimension = defaultMinDimension
	}
	c.Reconcile.UploadPrefix = strings.TrimSpace(c.Reconcile.UploadPrefix)
	if c.Reconcile.UploadPrefix == "" {
		c.Reconcile.UploadPrefix = defaultUploadPrefix
	}
	c.Reconcile.ExiftoolBinary = strings.TrimSpace(c.Reconcile.ExiftoolBinary)
}

func (c *Config) normalizeReport() error {
	if strings.TrimSpace(c.Report.Path) == "" {
		return nil
	}
	expanded, err := expandPath(c.Report.Path)
	if err != nil {
		return fmt.Errorf("report.path: %w", err)
	}
	c.Report.Path = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
