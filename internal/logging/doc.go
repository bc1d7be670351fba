// Package logging builds the slog loggers used across Reclaim.
//
// New constructs a logger from level/format options with either a compact
// console handler or a JSON handler. Attribute helpers keep field names
// consistent (notably the asset identifier), and NewNop provides a silent
// logger for tests.
package logging
