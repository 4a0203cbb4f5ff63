package storage

// SchemaVersion is the current history schema version.
const SchemaVersion = 1

// Schema creates the history tables. Times and durations are stored as
// integer nanoseconds so both drivers read them back identically.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    fixture_path TEXT NOT NULL,
    started_at INTEGER NOT NULL,
    duration_ns INTEGER NOT NULL,
    total INTEGER NOT NULL,
    passed INTEGER NOT NULL,
    failed INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_fixture_path ON runs(fixture_path);

CREATE TABLE IF NOT EXISTS cases (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    line INTEGER NOT NULL,
    args TEXT NOT NULL,
    expected TEXT NOT NULL,
    actual TEXT NOT NULL,
    outcome TEXT NOT NULL,
    PRIMARY KEY (run_id, line)
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

const insertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

const getSchemaVersion = `SELECT MAX(version) FROM schema_version`
