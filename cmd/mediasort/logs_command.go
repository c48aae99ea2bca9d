package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mediasort/internal/history"
	"mediasort/internal/logging"
	"mediasort/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines     int
		follow    bool
		contains  string
		component string
		level     string
		runFilter string
	)

	cmd := &cobra.Command{
		Use:   "logs [run-id]",
		Short: "Show the mediasort log or a run's placement log",
		Long: `Without arguments, show the tail of the persistent mediasort log
(<log_dir>/mediasort.log), optionally filtered and followed.

With a run ID (or unique prefix), show the placement log that run wrote into
its output directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			filter := logs.Filter{Contains: contains}

			if len(args) == 1 {
				if follow {
					return errors.New("--follow applies to the mediasort log only")
				}
				if !cfg.History.Enabled {
					return errors.New("run logs are looked up in history, which is disabled")
				}
				store, err := history.Open(cfg.Paths.HistoryDB)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer store.Close()
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run.LogPath == "" {
					return fmt.Errorf("run %s did not write a placement log", shortRunID(run.ID))
				}
				found, _, err := logs.Last(run.LogPath, lines, filter)
				if err != nil {
					return err
				}
				for _, line := range found {
					fmt.Fprintln(out, line)
				}
				return nil
			}

			filter.RunID = strings.TrimSpace(runFilter)
			filter.Component = strings.TrimSpace(component)
			filter.MinLevel = strings.TrimSpace(level)
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			found, offset, err := logs.Last(path, lines, filter)
			if err != nil {
				return err
			}
			for _, line := range found {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			followCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err = logs.Follow(followCtx, path, offset, 250*time.Millisecond, filter, func(line string) {
				fmt.Fprintln(out, line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show (0 for all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing lines as they are appended")
	cmd.Flags().StringVar(&contains, "grep", "", "Only show lines containing this text (case-insensitive)")
	cmd.Flags().StringVar(&component, "component", "", "Only show records from this component (scan, organize, metadata, ...)")
	cmd.Flags().StringVar(&level, "level", "", "Minimum record level: debug, info, warn or error")
	cmd.Flags().StringVar(&runFilter, "run", "", "Only show records for run IDs with this prefix")
	return cmd
}
