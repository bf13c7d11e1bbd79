package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/guregu/null/v6"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"SentimentPanel/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *logrus.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *logrus.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at    INTEGER NOT NULL,
			duration_ms   INTEGER NOT NULL,
			source        TEXT,
			backend       TEXT,
			strategy      TEXT,
			tickers       INTEGER,
			bars          INTEGER,
			headlines     INTEGER,
			daily_records INTEGER,
			merged_rows   INTEGER,
			global_r      REAL,
			global_p      REAL,
			global_n      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS run_correlations (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    INTEGER NOT NULL REFERENCES runs(id),
			scope     TEXT NOT NULL,
			pearson_r REAL,
			p_value   REAL,
			n         INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_corr_run ON run_correlations(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run summary and its correlation rows in one transaction.
func (r *SQLiteRecorder) RecordRun(run *model.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	global, _ := run.Global()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs
		(started_at, duration_ms, source, backend, strategy, tickers, bars, headlines,
		 daily_records, merged_rows, global_r, global_p, global_n)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.StartedAt.Unix(), run.Duration.Milliseconds(), run.Source, run.Backend, run.Strategy,
		run.Tickers, run.Bars, run.Headlines, run.DailyRecords, run.MergedRows,
		global.PearsonR, global.PValue, global.N,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, c := range run.Correlations {
		if _, err := tx.Exec(`INSERT INTO run_correlations (run_id, scope, pearson_r, p_value, n) VALUES (?,?,?,?,?)`,
			runID, c.Scope, c.PearsonR, c.PValue, c.N); err != nil {
			return fmt.Errorf("insert correlation %s: %w", c.Scope, err)
		}
	}
	return tx.Commit()
}

// RecentRuns returns the latest runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, started_at, duration_ms, source, backend, strategy,
		tickers, bars, headlines, global_r, global_p, global_n
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec        RunRecord
			startedAt  int64
			durationMs int64
			globalR    null.Float
			globalP    null.Float
			globalN    int
		)
		if err := rows.Scan(&rec.ID, &startedAt, &durationMs, &rec.Source, &rec.Backend, &rec.Strategy,
			&rec.Tickers, &rec.Bars, &rec.Headlines, &globalR, &globalP, &globalN); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.StartedAt = time.Unix(startedAt, 0)
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.Global = model.CorrelationResult{Scope: model.GlobalScope, PearsonR: globalR, PValue: globalP, N: globalN}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
