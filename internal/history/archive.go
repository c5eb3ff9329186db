package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"btt/internal/domain"
	"btt/internal/logging"
)

// Archive stores run summaries in the archive database
type Archive struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewArchive creates an Archive on an open database handle
func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db, logger: logging.WithComponent("history")}
}

// ArchiveRun stores the run's meta row and one row per case in a single
// transaction
func (a *Archive) ArchiveRun(ctx context.Context, summary *domain.RunSummary, cases []*domain.TestCase) error {
	createdAt, err := time.Parse(time.RFC3339, summary.Meta.Timestamp)
	if err != nil {
		createdAt = time.Now()
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	meta := summary.Meta
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs
			(run_id, total_cases, completed_cases, failed_cases,
			 total_steps, passed_steps, failed_steps,
			 duration_seconds, workers, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.RunID, meta.TotalCases, meta.CompletedCases, meta.FailedCases,
		meta.TotalSteps, meta.PassedSteps, meta.FailedSteps,
		meta.DurationSeconds, meta.Workers, createdAt)
	if err != nil {
		return fmt.Errorf("failed to archive run %s: %w", meta.RunID, err)
	}

	for _, tc := range cases {
		succeeded, failed, _ := tc.Counts()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO case_runs
				(run_id, case_id, title, status,
				 steps_total, steps_passed, steps_failed, source)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			meta.RunID, tc.ID, tc.Title, tc.Status.String(),
			len(tc.Steps), succeeded, failed, tc.Source)
		if err != nil {
			return fmt.Errorf("failed to archive case %s: %w", tc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive transaction: %w", err)
	}

	a.logger.Debug("run archived", "run", meta.RunID, "cases", len(cases))
	return nil
}

// RunRow is one archived run, as listed by the history command
type RunRow struct {
	RunID           string
	TotalCases      int
	CompletedCases  int
	FailedCases     int
	DurationSeconds float64
	Workers         int
	CreatedAt       time.Time
}

// RecentRuns lists the newest archived runs, most recent first
func (a *Archive) RecentRuns(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT run_id, total_cases, completed_cases, failed_cases,
		        duration_seconds, workers, created_at
		 FROM runs
		 ORDER BY created_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.RunID, &r.TotalCases, &r.CompletedCases, &r.FailedCases,
			&r.DurationSeconds, &r.Workers, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archived run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// CaseRow is one archived outcome of a single case
type CaseRow struct {
	RunID       string
	Status      string
	StepsTotal  int
	StepsPassed int
	StepsFailed int
	CreatedAt   time.Time
}

// CaseHistory lists a case's archived outcomes, most recent first
func (a *Archive) CaseHistory(ctx context.Context, caseID string, limit int) ([]CaseRow, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT c.run_id, c.status, c.steps_total, c.steps_passed, c.steps_failed, r.created_at
		 FROM case_runs c
		 JOIN runs r ON r.run_id = c.run_id
		 WHERE c.case_id = ?
		 ORDER BY r.created_at DESC
		 LIMIT ?`, caseID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list case history: %w", err)
	}
	defer rows.Close()

	var outcomes []CaseRow
	for rows.Next() {
		var c CaseRow
		if err := rows.Scan(&c.RunID, &c.Status, &c.StepsTotal, &c.StepsPassed,
			&c.StepsFailed, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan case history: %w", err)
		}
		outcomes = append(outcomes, c)
	}
	return outcomes, rows.Err()
}
