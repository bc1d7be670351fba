// Package assets defines the candidate record type, the logical-to-physical
// path resolution rule, and the Postgres-backed source that enumerates video
// assets whose recorded dimensions exceed the configured threshold.
//
// The source is the only component that talks to the asset database; every
// downstream consumer operates on typed Records with already-resolved paths.
package assets
