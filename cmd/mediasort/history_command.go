package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mediasort/internal/history"
)

var statusCaser = cases.Title(language.English)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List previous organize runs",
		Long: `List previous organize runs, newest first.

Pass a run ID (or a unique prefix of at least four characters) to show the
details of a single run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (history.enabled = false)")
				return nil
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					if errors.Is(err, history.ErrNotFound) {
						return fmt.Errorf("no run matches %q", args[0])
					}
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, newRunJSON(run))
				}
				fmt.Fprint(cmd.OutOrStdout(), renderRunDetail(run))
				return nil
			}

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				out := make([]runJSON, 0, len(runs))
				for _, run := range runs {
					out = append(out, newRunJSON(run))
				}
				return writeJSON(cmd, out)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRunTable(runs, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderRunTable(runs []history.Run, now time.Time) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortRunID(run.ID),
			humanize.RelTime(run.StartedAt, now, "ago", "from now"),
			statusCaser.String(string(run.Status)),
			runModeLabel(run),
			strconv.Itoa(run.InputFiles),
			strconv.Itoa(run.Organized + run.OrganizedFallback),
			strconv.Itoa(run.Duplicates),
			strconv.Itoa(run.Unsure),
			strconv.Itoa(run.Failed),
			run.OutputDir,
		})
	}
	return renderTable(
		[]string{"ID", "Started", "Status", "Mode", "Files", "Dated", "Dupes", "Unsure", "Failed", "Output"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}

func renderRunDetail(run history.Run) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%-18s %s\n", label+":", value)
	}
	line("Run ID", run.ID)
	line("Status", statusCaser.String(string(run.Status)))
	line("Started", run.StartedAt.Local().Format(time.RFC1123))
	if d := run.Duration(); d > 0 {
		line("Duration", d.Round(time.Millisecond).String())
	}
	line("Mode", runModeLabel(run))
	line("Hash", run.Algorithm)
	line("Inputs", strings.Join(run.Inputs, ", "))
	line("Output", run.OutputDir)
	line("Input files", strconv.Itoa(run.InputFiles))
	line("EXIF/metadata", strconv.Itoa(run.Organized))
	line("Modified date", strconv.Itoa(run.OrganizedFallback))
	line("Duplicates", strconv.Itoa(run.Duplicates))
	line("Unsure", strconv.Itoa(run.Unsure))
	line("Unsupported", strconv.Itoa(run.Unsupported+run.Ignored))
	line("Failed", strconv.Itoa(run.Failed))
	line("Hashed", humanize.Bytes(uint64(run.BytesHashed)))
	if run.LogPath != "" {
		line("Log", run.LogPath)
	}
	if run.ReportPath != "" {
		line("Duplicates report", run.ReportPath)
	}
	if run.ErrorMessage != "" {
		line("Error", run.ErrorMessage)
	}
	return b.String()
}

func runModeLabel(run history.Run) string {
	if run.PlanOnly {
		return run.Mode + " (plan)"
	}
	return run.Mode
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
