// Package history keeps the rolling window of saved analyses.
//
// The list lives under a single key of a kvstore.Store, newest first, and
// never grows past MaxEntries. Save is a read-modify-write guarded by a
// mutex so concurrent saves within one process cannot lose entries or
// break the bound.
package history
