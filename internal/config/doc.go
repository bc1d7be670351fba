// Package config loads, normalizes, and validates Reclaim configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RECLAIM_DB_PASSWORD and RECLAIM_API_KEY. The Config type centralizes every
// knob the CLI needs, so library paths, database credentials, and indexer
// settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
