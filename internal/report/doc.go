// Package report keeps a local SQLite ledger of reconciliation runs.
//
// Each run gets one row plus one outcome row per processed asset, so a run
// can be audited after the fact without re-querying the asset database. The
// ledger is append-only history, not coordination state; deleting the file
// loses nothing but the audit trail.
package report
