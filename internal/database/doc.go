// Package database provides SQLite-based storage for mailscout.
//
// The only table is an MX cache: the ordered exchanger list of each domain
// resolved during earlier runs, with the time it was stored. Entries older
// than the configured TTL are treated as misses and removed by Purge.
//
// SQLite is used through modernc.org/sqlite, so the binary stays CGO-free.
// Probe results are never stored.
package database
