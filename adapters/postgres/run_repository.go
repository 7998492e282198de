// Package postgres persists analysis runs for later retrieval by the
// API layer.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/r0bertgabriel/inmet-belem/app"
	"github.com/r0bertgabriel/inmet-belem/domain/core"
	"github.com/r0bertgabriel/inmet-belem/domain/episode"
)

// runRepository stores one row per analysis run plus the per-variable
// summaries and episodes.
type runRepository struct {
	db *sqlx.DB
}

// RunRepository persists and loads analysis reports.
type RunRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveReport(ctx context.Context, report *app.AnalysisReport) error
	GetReport(ctx context.Context, id core.RunID) (*app.AnalysisReport, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID          core.RunID `db:"id" json:"id"`
	GeneratedAt time.Time  `db:"generated_at" json:"generated_at"`
	PeriodStart time.Time  `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time  `db:"period_end" json:"period_end"`
	RecordCount int        `db:"record_count" json:"record_count"`
}

// NewRunRepository creates a repository over an open connection pool.
func NewRunRepository(db *sqlx.DB) RunRepository {
	return &runRepository{db: db}
}

// EnsureSchema creates the tables when they are absent.
func (r *runRepository) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		generated_at TIMESTAMPTZ NOT NULL,
		period_start DATE NOT NULL,
		period_end DATE NOT NULL,
		record_count INTEGER NOT NULL,
		rejected INTEGER NOT NULL,
		replaced INTEGER NOT NULL,
		gap_count INTEGER NOT NULL,
		report JSONB NOT NULL
	);
	CREATE TABLE IF NOT EXISTS episodes (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
		direction TEXT NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		duration_days INTEGER NOT NULL,
		extreme DOUBLE PRECISION NOT NULL,
		mean DOUBLE PRECISION NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_episodes_run ON episodes(run_id);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveReport stores the report row and its episodes in one transaction.
// The full report is kept as JSONB so GetReport can return it intact.
func (r *runRepository) SaveReport(ctx context.Context, report *app.AnalysisReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO analysis_runs (
		id, generated_at, period_start, period_end,
		record_count, rejected, replaced, gap_count, report
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		report.RunID, report.GeneratedAt,
		report.PeriodStart.Time(), report.PeriodEnd.Time(),
		report.RecordCount, report.Rejected, report.Replaced, report.GapCount,
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	insert := func(dir episode.Direction, episodes []episode.Episode) error {
		for _, e := range episodes {
			_, err := tx.ExecContext(ctx, `INSERT INTO episodes (
				id, run_id, direction, start_date, end_date, duration_days, extreme, mean
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				core.NewID(), report.RunID, dir,
				e.Start.Time(), e.End.Time(), e.Duration, e.Extreme, e.Mean,
			)
			if err != nil {
				return fmt.Errorf("failed to insert episode: %w", err)
			}
		}
		return nil
	}
	if err := insert(episode.Hot, report.HeatWaves.Episodes); err != nil {
		return err
	}
	if err := insert(episode.Cold, report.ColdSpells.Episodes); err != nil {
		return err
	}

	return tx.Commit()
}

// GetReport loads a stored report by run id.
func (r *runRepository) GetReport(ctx context.Context, id core.RunID) (*app.AnalysisReport, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT report FROM analysis_runs WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report app.AnalysisReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// ListRuns returns the newest runs first.
func (r *runRepository) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []RunSummary
	err := r.db.SelectContext(ctx, &runs, `SELECT
		id, generated_at, period_start, period_end, record_count
	FROM analysis_runs ORDER BY generated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
