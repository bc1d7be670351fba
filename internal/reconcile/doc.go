// Package reconcile decides, per candidate asset, between skipping, a
// metadata-only refresh, and a full swap of the original for its encoded
// variant.
//
// The decision is terminal on the first applicable branch: unresolved paths
// and missing files skip without side effects; an encoded variant that is not
// strictly smaller yields a targeted metadata refresh only; otherwise the
// metadata transplant runs and the original is replaced by a single rename.
// The metadata refresh is deliberately decoupled from the swap decision:
// stored dimensions can be stale even when no storage is reclaimed.
//
// All failures past classification are per-asset and recoverable; the caller
// keeps iterating.
package reconcile
