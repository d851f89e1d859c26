// Package sqlite provides the SQLite-backed instance catalog.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Every generated instance is recorded with
// its batch run id, target features, strategy and shortfalls.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.booksynth/data/catalog.db
//
// # Thread Safety
//
// All operations are thread-safe. Batch workers save entries concurrently;
// SQLite in WAL mode with a busy timeout serialises the writes.
package sqlite
