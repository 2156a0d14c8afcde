package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/themobileprof/buildok/internal/interfaces"
	"github.com/themobileprof/buildok/pkg/models"
)

var (
	_ interfaces.RunRecorder     = (*DB)(nil)
	_ interfaces.RunHistory      = (*DB)(nil)
	_ interfaces.SettingsManager = (*DB)(nil)
)

// StartRun inserts a run in the running state
func (db *DB) StartRun(report *models.RunReport) error {
	_, err := db.conn.Exec(`
		INSERT INTO runs (id, topic, guide, total_steps, dry_run, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.RunID, report.Topic, report.GuidePath, report.TotalSteps, report.DryRun, report.StartedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to start run %s: %w", report.RunID, err)
	}
	return nil
}

// RecordStep stores the result of one executed instruction
func (db *DB) RecordStep(runID string, step models.StepResult) error {
	_, err := db.conn.Exec(`
		INSERT INTO run_steps (run_id, step_order, line, step, punct, action, success, output, error, decision, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, step.Order, step.Line, step.Step, step.Punct, step.Action, step.Success, step.Output, step.Error, step.Decision, step.DurationMs)
	if err != nil {
		return fmt.Errorf("failed to record step %d of run %s: %w", step.Order, runID, err)
	}
	return nil
}

// FinishRun stores the final status of a run
func (db *DB) FinishRun(report *models.RunReport) error {
	result, err := db.conn.Exec(`
		UPDATE runs SET status = ?, completed_steps = ?, last_error = ?, terminated = ?, duration_ms = ?
		WHERE id = ?
	`, string(report.Status), report.CompletedSteps, report.LastError, report.Terminated, report.DurationMs, report.RunID)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", report.RunID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run not found: %s", report.RunID)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first, without their steps
func (db *DB) RecentRuns(limit int) ([]models.RunReport, error) {
	rows, err := db.conn.Query(`
		SELECT id, topic, COALESCE(guide, ''), status, total_steps, completed_steps,
		       COALESCE(last_error, ''), terminated, dry_run, started_at, duration_ms
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunReport
	for rows.Next() {
		var (
			r         models.RunReport
			status    string
			startedAt int64
		)
		if err := rows.Scan(&r.RunID, &r.Topic, &r.GuidePath, &status, &r.TotalSteps, &r.CompletedSteps,
			&r.LastError, &r.Terminated, &r.DryRun, &startedAt, &r.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Status = models.RunStatus(status)
		r.StartedAt = time.UnixMilli(startedAt)
		r.Duration = time.Duration(r.DurationMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun loads a run together with its recorded steps
func (db *DB) GetRun(runID string) (*models.RunReport, error) {
	var (
		r         models.RunReport
		status    string
		startedAt int64
	)
	err := db.conn.QueryRow(`
		SELECT id, topic, COALESCE(guide, ''), status, total_steps, completed_steps,
		       COALESCE(last_error, ''), terminated, dry_run, started_at, duration_ms
		FROM runs WHERE id = ?
	`, runID).Scan(&r.RunID, &r.Topic, &r.GuidePath, &status, &r.TotalSteps, &r.CompletedSteps,
		&r.LastError, &r.Terminated, &r.DryRun, &startedAt, &r.DurationMs)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	r.Status = models.RunStatus(status)
	r.StartedAt = time.UnixMilli(startedAt)
	r.Duration = time.Duration(r.DurationMs) * time.Millisecond

	rows, err := db.conn.Query(`
		SELECT step_order, line, step, punct, COALESCE(action, ''), success,
		       COALESCE(output, ''), COALESCE(error, ''), decision, duration_ms
		FROM run_steps WHERE run_id = ? ORDER BY step_order
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get steps of run %s: %w", runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.StepResult
		if err := rows.Scan(&s.Order, &s.Line, &s.Step, &s.Punct, &s.Action, &s.Success,
			&s.Output, &s.Error, &s.Decision, &s.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		s.Duration = time.Duration(s.DurationMs) * time.Millisecond
		r.Steps = append(r.Steps, s)
	}
	return &r, rows.Err()
}
