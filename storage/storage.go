// Package storage persists simulation runs and their telemetry windows in
// SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/mindurka/overdrive/telemetry"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run is one simulation session.
type Run struct {
	ID                    string     `json:"id"`
	Map                   string     `json:"map"`
	Gamemode              string     `json:"gamemode"`
	OverdriveIgnoresCheat bool       `json:"overdrive_ignores_cheat"`
	Seed                  int64      `json:"seed"`
	StartedAt             time.Time  `json:"started_at"`
	EndedAt               *time.Time `json:"ended_at,omitempty"`
	Ticks                 int32      `json:"ticks"`
}

// Store reads and writes runs.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}
	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schemas: %w", err)
	}

	return &Store{db: db}, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			map TEXT NOT NULL,
			gamemode TEXT NOT NULL,
			overdrive_ignores_cheat BOOLEAN NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			started_at INTEGER NOT NULL,
			ended_at INTEGER,
			ticks INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS windows (
			run_id TEXT NOT NULL,
			window_end INTEGER NOT NULL,
			sim_time REAL NOT NULL,
			buildings INTEGER NOT NULL,
			running INTEGER NOT NULL,
			cheating INTEGER NOT NULL,
			starved_ticks INTEGER NOT NULL,
			pulses INTEGER NOT NULL,
			power_produced REAL NOT NULL,
			power_needed REAL NOT NULL,
			satisfaction_mean REAL NOT NULL,
			projector_eff_mean REAL NOT NULL,
			overdrive_ignores_cheat BOOLEAN NOT NULL,
			PRIMARY KEY (run_id, window_end),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a new run. A missing id or start time is filled in.
func (s *Store) BeginRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, map, gamemode, overdrive_ignores_cheat, seed, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Map, run.Gamemode, run.OverdriveIgnoresCheat, run.Seed, run.StartedAt.UnixMilli(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// FinishRun records the end of a run.
func (s *Store) FinishRun(ctx context.Context, runID string, ticks int32, endedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET ended_at = ?, ticks = ? WHERE run_id = ?`,
		endedAt.UnixMilli(), ticks, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finishing run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// RecordWindow stores one telemetry window of a run.
func (s *Store) RecordWindow(ctx context.Context, runID string, w telemetry.WindowStats) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO windows (run_id, window_end, sim_time, buildings, running, cheating,
			starved_ticks, pulses, power_produced, power_needed, satisfaction_mean,
			projector_eff_mean, overdrive_ignores_cheat)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, w.WindowEndTick, w.SimTimeSec, w.Buildings, w.Running, w.Cheating,
		w.StarvedTicks, w.Pulses, w.PowerProduced, w.PowerNeeded, w.SatisfactionMean,
		w.ProjectorEffMean, w.OverdriveIgnoresCheat,
	)
	if err != nil {
		return fmt.Errorf("inserting window: %w", err)
	}
	return nil
}

// Run returns a run by id.
func (s *Store) Run(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, map, gamemode, overdrive_ignores_cheat, seed, started_at, ended_at, ticks
		FROM runs WHERE run_id = ?`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return run, err
}

// Runs returns every run, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, map, gamemode, overdrive_ignores_cheat, seed, started_at, ended_at, ticks
		FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Windows returns the stored windows of a run in tick order.
func (s *Store) Windows(ctx context.Context, runID string) ([]telemetry.WindowStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT window_end, sim_time, buildings, running, cheating, starved_ticks, pulses,
			power_produced, power_needed, satisfaction_mean, projector_eff_mean,
			overdrive_ignores_cheat
		FROM windows WHERE run_id = ? ORDER BY window_end ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying windows: %w", err)
	}
	defer rows.Close()

	var out []telemetry.WindowStats
	for rows.Next() {
		var w telemetry.WindowStats
		if err := rows.Scan(
			&w.WindowEndTick, &w.SimTimeSec, &w.Buildings, &w.Running, &w.Cheating,
			&w.StarvedTicks, &w.Pulses, &w.PowerProduced, &w.PowerNeeded,
			&w.SatisfactionMean, &w.ProjectorEffMean, &w.OverdriveIgnoresCheat,
		); err != nil {
			return nil, fmt.Errorf("scanning window: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run     Run
		started int64
		ended   sql.NullInt64
	)
	if err := sc.Scan(&run.ID, &run.Map, &run.Gamemode, &run.OverdriveIgnoresCheat,
		&run.Seed, &started, &ended, &run.Ticks); err != nil {
		return Run{}, err
	}
	run.StartedAt = time.UnixMilli(started)
	if ended.Valid {
		t := time.UnixMilli(ended.Int64)
		run.EndedAt = &t
	}
	return run, nil
}
