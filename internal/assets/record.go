package assets

// Record describes one candidate video asset as returned by the asset
// database. Records are read-only: reconciliation mutates the filesystem and
// the downstream index, never the record.
type Record struct {
	// ID is the asset's stable identifier in the asset database.
	ID string
	// EncodedPath is the physical path of the re-encoded variant. Empty when
	// the stored path does not follow the library convention.
	EncodedPath string
	// OriginalPath is the physical path of the stored original. Empty when
	// the stored path does not follow the library convention.
	OriginalPath string
	// Width and Height are the recorded pixel dimensions that made the asset
	// a candidate. Both exceed the configured minimum by query construction.
	Width  int
	Height int
	// SizeBytes is the original's byte size as last recorded by the asset
	// database. It may be stale; reconciliation always re-stats the files.
	SizeBytes int64
}

// Resolved reports whether both physical paths follow the library convention.
func (r Record) Resolved() bool {
	return r.EncodedPath != "" && r.OriginalPath != ""
}
