package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mediasort/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories and optional tools before a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			colorize := isTerminal(stdout)

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, line := range checkLines(results, colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout, renderStatusLine("EXIF", featureKind(cfg.Metadata.EXIFEnabled), yesNo(cfg.Metadata.EXIFEnabled), colorize))
			fmt.Fprintln(stdout, renderStatusLine("History", featureKind(cfg.History.Enabled), yesNo(cfg.History.Enabled), colorize))

			if blocking := preflight.Blocking(results); len(blocking) > 0 {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}

func checkLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results)+1)
	failed := 0
	warned := 0
	for _, r := range results {
		kind := resultKind(r)
		switch kind {
		case statusWarn:
			warned++
		case statusError:
			failed++
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}

	summary := renderStatusLine("Summary", statusOK, "Ready to organize", colorize)
	switch {
	case failed > 0:
		summary = renderStatusLine("Summary", statusError, fmt.Sprintf("%d blocking problem(s)", failed), colorize)
	case warned > 0:
		summary = renderStatusLine("Summary", statusWarn, fmt.Sprintf("Ready with %d warning(s)", warned), colorize)
	}
	return append([]string{summary}, lines...)
}
