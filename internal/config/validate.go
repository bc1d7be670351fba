package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateIndexer(); err != nil {
		return err
	}
	return c.validateReconcile()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Name == "" {
		return errors.New("database.name must be set")
	}
	if c.Database.User == "" {
		return errors.New("database.user must be set")
	}
	return nil
}

func (c *Config) validateIndexer() error {
	if c.Indexer.URL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/reclaim/config.toml"
		}
		return fmt.Errorf("indexer.url is required. Edit %s (create with 'reclaim config init')", defaultPath)
	}
	if c.Indexer.APIKey == "" {
		return errors.New("indexer.api_key is required. Set RECLAIM_API_KEY env var or edit the config file")
	}
	return nil
}

func (c *Config) validateReconcile() error {
	if c.Reconcile.MinDimension <= 0 {
		return errors.New("reconcile.min_dimension must be positive")
	}
	if c.Reconcile.UploadPrefix == "" {
		return errors.New("reconcile.upload_prefix must be set")
	}
	return nil
}
