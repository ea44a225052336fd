// Package kvstore provides the persistent key-value storage used by SitePulse.
//
// Values are opaque byte slices, in practice JSON documents. The package
// offers three backends behind the Store interface:
//   - Memory: process-local map, used by tests and ephemeral runs
//   - SQLite: single-file database (modernc.org/sqlite, CGO-free), the default
//   - Postgres: shared database for a multi-user dashboard server (pgx)
//
// WithPrefix namespaces every key (the dashboard historically stores its
// data under "pulse_*" keys). GetJSON and SetJSON add typed access with the
// dashboard's fallback rule: a missing or corrupt value reads as absent.
package kvstore
