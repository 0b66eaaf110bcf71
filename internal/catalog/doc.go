// Package catalog persists scan results and build history in SQLite.
//
// The classification cache keys on path, size, and modification time so an
// unchanged image is never re-decoded across runs; a changed file simply
// misses and is re-probed. The builds table records one row per completed
// run (run ID, group counts, keyspace width, mode) backing the history
// command. The database is a cache, not an archive: deleting it only costs
// the next scan a full re-probe. Schema changes bump schemaVersion and
// require clearing the file.
package catalog
