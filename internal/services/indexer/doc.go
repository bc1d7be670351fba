// Package indexer notifies the library's indexing service after a swap.
//
// The client speaks two endpoints: a targeted refresh-metadata job naming
// specific asset ids, issued after each reconciled asset, and a forced
// library-wide metadata extraction used as the end-of-run fallback sweep.
// Non-2xx responses become errors carrying the response body for diagnostics.
package indexer
