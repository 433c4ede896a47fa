package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/smoracle/internal/oracle"
)

//go:embed schema.sql
var schemaSQL string

// Journal records runs and trials in a private in-memory database.
type Journal struct {
	db *sql.DB
}

var _ oracle.Recorder = (*Journal)(nil)

// Open creates an empty journal.
//
// The pool is pinned to a single connection: every new connection to
// ":memory:" would see a different, empty database.
func Open() (*Journal, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close discards the journal and everything in it.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = OFF",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// BeginRun records the start of a run. Recording the same run ID twice is
// an error.
func (j *Journal) BeginRun(ctx context.Context, run oracle.RunInfo) error {
	// Seeds are stored bit-for-bit as int64; SQLite has no unsigned type.
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, oracle, trials, size, seed)
		VALUES (?, ?, ?, ?, ?)
	`, run.RunID, run.Oracle, run.Trials, run.Size, int64(run.Seed))
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// RecordTrial stores one trial outcome. The run must have been started.
func (j *Journal) RecordTrial(ctx context.Context, rec oracle.TrialRecord) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trials (run_id, trial, fingerprint, output, pass, kind, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.RunID, rec.Trial, rec.Fingerprint, rec.Output, rec.Pass, string(rec.Kind), rec.Message)
	if err != nil {
		return fmt.Errorf("record trial: %w", err)
	}
	return nil
}
