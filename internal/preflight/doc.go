// Package preflight checks the run environment before reconciliation starts:
// the exiftool binary, library directory permissions, asset database
// connectivity, and indexer API reachability. Checks return results rather
// than errors so the CLI can render the full picture at once.
package preflight
