// Package storage provides history.Storage backends.
//
// Open selects a backend from config.HistoryConfig:
//
//   - "sqlite": SQLite through modernc.org/sqlite (pure Go, no cgo)
//   - "sqlite3": SQLite through github.com/mattn/go-sqlite3 (cgo)
//   - "memory": process-local maps, for tests and throwaway runs
//
// Both SQLite drivers share one schema, so a database written by one can be
// read by the other.
package storage
