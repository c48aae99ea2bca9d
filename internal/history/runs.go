package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the terminal state of a recorded run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Run is one ledger row.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     Status
	Inputs     []string
	OutputDir  string
	Mode       string
	PlanOnly   bool
	Algorithm  string

	InputFiles        int
	Organized         int
	OrganizedFallback int
	Duplicates        int
	Unsure            int
	Unsupported       int
	Ignored           int
	Failed            int
	BytesHashed       int64

	LogPath      string
	ReportPath   string
	ErrorMessage string
}

// Duration is the wall time of the run, or zero when it never finished.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

const runColumns = "id, started_at, finished_at, status, inputs_json, output_dir, mode, plan_only, hash_algorithm, input_files, organized, organized_fallback, duplicates, unsure, unsupported, ignored, failed, bytes_hashed, log_path, report_path, error_message"

// Record inserts run, replacing any row with the same ID.
func (s *Store) Record(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("history: run id is required")
	}
	inputs, err := json.Marshal(run.Inputs)
	if err != nil {
		return fmt.Errorf("encode inputs: %w", err)
	}
	err = s.execWithRetry(ctx,
		"INSERT OR REPLACE INTO runs ("+runColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		run.ID,
		formatTime(run.StartedAt),
		nullableTime(run.FinishedAt),
		string(run.Status),
		string(inputs),
		run.OutputDir,
		run.Mode,
		boolToInt(run.PlanOnly),
		run.Algorithm,
		run.InputFiles,
		run.Organized,
		run.OrganizedFallback,
		run.Duplicates,
		run.Unsure,
		run.Unsupported,
		run.Ignored,
		run.Failed,
		run.BytesHashed,
		nullableString(run.LogPath),
		nullableString(run.ReportPath),
		nullableString(run.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run with the given ID. A unique prefix of at least four
// characters is accepted.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if len(id) < 4 {
		return Run{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR id LIKE ? ORDER BY started_at DESC LIMIT 2",
		id, id+"%")
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("scan run: %w", err)
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	for _, run := range found {
		if run.ID == id {
			return run, nil
		}
	}
	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return Run{}, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
		status      string
		inputsRaw   string
		planOnly    int
		logPath     sql.NullString
		reportPath  sql.NullString
		errMessage  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&status,
		&inputsRaw,
		&run.OutputDir,
		&run.Mode,
		&planOnly,
		&run.Algorithm,
		&run.InputFiles,
		&run.Organized,
		&run.OrganizedFallback,
		&run.Duplicates,
		&run.Unsure,
		&run.Unsupported,
		&run.Ignored,
		&run.Failed,
		&run.BytesHashed,
		&logPath,
		&reportPath,
		&errMessage,
	); err != nil {
		return Run{}, err
	}
	run.Status = Status(status)
	run.PlanOnly = planOnly != 0
	run.LogPath = logPath.String
	run.ReportPath = reportPath.String
	run.ErrorMessage = errMessage.String
	if err := json.Unmarshal([]byte(inputsRaw), &run.Inputs); err != nil {
		return Run{}, fmt.Errorf("decode inputs: %w", err)
	}
	if t, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = t
	}
	if finishedRaw.Valid {
		if t, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = t
		}
	}
	return run, nil
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return formatTime(value)
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
}
