// Package store is the server's in-memory match registry. Matches live only
// as long as the process and are evicted once they have gone untouched for
// the configured TTL.
//
// Entries hold dls.Snapshot values rather than live *dls.Match pointers, so
// copies handed to readers never alias state a writer is changing. Update
// rebuilds the match, applies the change and stores the new snapshot under
// the write lock, which serialises writers per store.
package store
