package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"mediasort/internal/history"
	"mediasort/internal/orgrun"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// jsonTime renders run timestamps in UTC.
func jsonTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type summaryJSON struct {
	RunID             string  `json:"run_id"`
	PlanOnly          bool    `json:"plan_only"`
	Mode              string  `json:"mode"`
	InputFiles        int     `json:"input_files"`
	Organized         int     `json:"organized"`
	OrganizedFallback int     `json:"organized_fallback"`
	Duplicates        int     `json:"duplicates"`
	Unsupported       int     `json:"unsupported"`
	Ignored           int     `json:"ignored"`
	Unsure            int     `json:"unsure"`
	Failed            int     `json:"failed"`
	TotalOutput       int     `json:"total_output"`
	BytesHashed       int64   `json:"bytes_hashed"`
	DurationSeconds   float64 `json:"duration_seconds"`
	LogPath           string  `json:"log_path"`
	ReportPath        string  `json:"report_path,omitempty"`
}

func newSummaryJSON(res orgrun.Result, mode string) summaryJSON {
	s := res.Summary
	return summaryJSON{
		RunID:             res.RunID,
		PlanOnly:          res.PlanOnly,
		Mode:              mode,
		InputFiles:        s.InputFiles,
		Organized:         s.Organized,
		OrganizedFallback: s.OrganizedFallback,
		Duplicates:        s.Duplicates,
		Unsupported:       s.Unsupported,
		Ignored:           s.Ignored,
		Unsure:            s.Unsure,
		Failed:            s.Failed,
		TotalOutput:       s.TotalOutput(),
		BytesHashed:       s.BytesHashed,
		DurationSeconds:   res.Duration().Seconds(),
		LogPath:           s.LogPath,
		ReportPath:        s.ReportPath,
	}
}

type runJSON struct {
	ID                string   `json:"id"`
	Status            string   `json:"status"`
	StartedAt         string   `json:"started_at"`
	FinishedAt        string   `json:"finished_at,omitempty"`
	Inputs            []string `json:"inputs"`
	OutputDir         string   `json:"output_dir"`
	Mode              string   `json:"mode"`
	PlanOnly          bool     `json:"plan_only"`
	Algorithm         string   `json:"hash_algorithm"`
	InputFiles        int      `json:"input_files"`
	Organized         int      `json:"organized"`
	OrganizedFallback int      `json:"organized_fallback"`
	Duplicates        int      `json:"duplicates"`
	Unsure            int      `json:"unsure"`
	Unsupported       int      `json:"unsupported"`
	Ignored           int      `json:"ignored"`
	Failed            int      `json:"failed"`
	BytesHashed       int64    `json:"bytes_hashed"`
	LogPath           string   `json:"log_path,omitempty"`
	ReportPath        string   `json:"report_path,omitempty"`
	Error             string   `json:"error,omitempty"`
}

func newRunJSON(run history.Run) runJSON {
	out := runJSON{
		ID:                run.ID,
		Status:            string(run.Status),
		StartedAt:         jsonTime(run.StartedAt),
		Inputs:            run.Inputs,
		OutputDir:         run.OutputDir,
		Mode:              run.Mode,
		PlanOnly:          run.PlanOnly,
		Algorithm:         run.Algorithm,
		InputFiles:        run.InputFiles,
		Organized:         run.Organized,
		OrganizedFallback: run.OrganizedFallback,
		Duplicates:        run.Duplicates,
		Unsure:            run.Unsure,
		Unsupported:       run.Unsupported,
		Ignored:           run.Ignored,
		Failed:            run.Failed,
		BytesHashed:       run.BytesHashed,
		LogPath:           run.LogPath,
		ReportPath:        run.ReportPath,
		Error:             run.ErrorMessage,
	}
	if !run.FinishedAt.IsZero() {
		out.FinishedAt = jsonTime(run.FinishedAt)
	}
	if out.Inputs == nil {
		out.Inputs = []string{}
	}
	return out
}
