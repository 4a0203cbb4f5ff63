package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/history"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Driver is the database/sql driver: "sqlite" or "sqlite3".
	Driver string

	// Path is the database file. Parent directories are created.
	Path string

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// SQLiteStorage implements history.Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database and applies the schema.
func NewSQLiteStorage(cfg *SQLiteConfig) (*SQLiteStorage, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, history.NewStorageError("sqlite", "open", errors.New("database path is required"))
	}
	if cfg.Driver == "" {
		cfg.Driver = config.DriverSQLite
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = config.DefaultHistoryBusyTimeout
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, history.NewStorageError(cfg.Driver, "mkdir", err)
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, history.NewStorageError(cfg.Driver, "open", err)
	}

	// PRAGMAs are per connection, so keep exactly one.
	db.SetMaxOpenConns(1)

	s := &SQLiteStorage{
		db:     db,
		config: cfg,
		logger: slog.Default().With("component", "history.storage.sqlite"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("SQLite history storage initialized",
		"driver", cfg.Driver,
		"path", cfg.Path,
	)

	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	pragmas := []struct {
		op   string
		stmt string
	}{
		{"enable_wal", "PRAGMA journal_mode=WAL;"},
		{"set_busy_timeout", fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())},
		{"enable_foreign_keys", "PRAGMA foreign_keys=ON;"},
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p.stmt); err != nil {
			return s.err(p.op, err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return s.err("create_schema", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return s.err("insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return s.err("get_schema_version", err)
	}
	if version != SchemaVersion {
		return s.err("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Store inserts a run and its cases in one transaction.
func (s *SQLiteStorage) Store(ctx context.Context, run *history.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.err("begin", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, run.ID).Scan(&exists)
	if err != nil {
		return s.err("store", err)
	}
	if exists > 0 {
		return s.err("store", history.ErrDuplicateRun)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, fixture_path, started_at, duration_ns, total, passed, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.FixturePath, run.StartedAt.UnixNano(), int64(run.Duration),
		run.Total, run.Passed, run.Failed,
	)
	if err != nil {
		return s.err("store", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cases (run_id, line, args, expected, actual, outcome) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return s.err("prepare", err)
	}
	defer stmt.Close()

	for _, c := range run.Cases {
		args, err := json.Marshal(c.Args)
		if err != nil {
			return s.err("marshal_args", err)
		}
		if _, err := stmt.ExecContext(ctx, run.ID, c.Line, string(args), c.Expected, c.Actual, c.Outcome); err != nil {
			return s.err("store_case", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return s.err("commit", err)
	}
	return nil
}

// Get loads a run and its cases.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*history.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, fixture_path, started_at, duration_ns, total, passed, failed FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, history.ErrNotFound
	}
	if err != nil {
		return nil, s.err("get", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT line, args, expected, actual, outcome FROM cases WHERE run_id = ? ORDER BY line`, id)
	if err != nil {
		return nil, s.err("get_cases", err)
	}
	defer rows.Close()

	run.Cases = []history.CaseRecord{}
	for rows.Next() {
		var c history.CaseRecord
		var args string
		if err := rows.Scan(&c.Line, &args, &c.Expected, &c.Actual, &c.Outcome); err != nil {
			return nil, s.err("scan_case", err)
		}
		if err := json.Unmarshal([]byte(args), &c.Args); err != nil {
			return nil, s.err("unmarshal_args", err)
		}
		run.Cases = append(run.Cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, s.err("get_cases", err)
	}
	return run, nil
}

// List returns run summaries, newest first.
func (s *SQLiteStorage) List(ctx context.Context, query *history.Query) ([]*history.Run, error) {
	where, args := buildWhereClause(query)

	q := `SELECT id, fixture_path, started_at, duration_ns, total, passed, failed FROM runs`
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY started_at DESC, id DESC LIMIT ?"
	args = append(args, query.EffectiveLimit())
	if query != nil && query.Offset > 0 {
		q += " OFFSET ?"
		args = append(args, query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, s.err("list", err)
	}
	defer rows.Close()

	runs := []*history.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, s.err("scan", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, s.err("list", err)
	}
	return runs, nil
}

// Delete removes old runs and runs beyond the newest keepLast.
func (s *SQLiteStorage) Delete(ctx context.Context, before time.Time, keepLast int) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, s.err("begin", err)
	}
	defer tx.Rollback()

	var deleted int64
	if !before.IsZero() {
		res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, before.UnixNano())
		if err != nil {
			return 0, s.err("delete_by_age", err)
		}
		n, _ := res.RowsAffected()
		deleted += n
	}

	if keepLast > 0 {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM runs WHERE id NOT IN (
				SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT ?
			)`, keepLast)
		if err != nil {
			return 0, s.err("delete_by_count", err)
		}
		n, _ := res.RowsAffected()
		deleted += n
	}

	if deleted > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cases WHERE run_id NOT IN (SELECT id FROM runs)`); err != nil {
			return 0, s.err("delete_cases", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, s.err("commit", err)
	}
	return deleted, nil
}

// Count returns the number of stored runs.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, s.err("count", err)
	}
	return count, nil
}

// Ping checks the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return s.err("ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return s.err("close", err)
	}
	return nil
}

func (s *SQLiteStorage) err(op string, cause error) error {
	return history.NewStorageError(s.config.Driver, op, cause)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*history.Run, error) {
	var run history.Run
	var startedAt, duration int64
	if err := row.Scan(&run.ID, &run.FixturePath, &startedAt, &duration, &run.Total, &run.Passed, &run.Failed); err != nil {
		return nil, err
	}
	run.StartedAt = time.Unix(0, startedAt).UTC()
	run.Duration = time.Duration(duration)
	return &run, nil
}

func buildWhereClause(query *history.Query) (string, []any) {
	if query == nil {
		return "", nil
	}

	var conds []string
	var args []any
	if query.FixturePath != "" {
		conds = append(conds, "fixture_path = ?")
		args = append(args, query.FixturePath)
	}
	if query.Since != nil {
		conds = append(conds, "started_at >= ?")
		args = append(args, query.Since.UnixNano())
	}
	if query.Until != nil {
		conds = append(conds, "started_at < ?")
		args = append(args, query.Until.UnixNano())
	}
	if query.FailedOnly {
		conds = append(conds, "failed > 0")
	}
	return strings.Join(conds, " AND "), args
}
