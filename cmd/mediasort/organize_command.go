package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"mediasort/internal/config"
	"mediasort/internal/logging"
	"mediasort/internal/orgrun"
	"mediasort/internal/preflight"
)

type organizeFlags struct {
	output   string
	copy     bool
	move     bool
	fallback bool
	plan     bool
	hash     string
	onError  string
	json     bool
	actions  bool
	verbose  bool
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var flags organizeFlags

	cmd := &cobra.Command{
		Use:   "organize [input...]",
		Short: "Deduplicate media and place it into the dated output tree",
		Long: `Scan the input directories, group files by content hash, resolve a capture
date for each group and copy or move every file into the output tree:

  <output>/<YYYY>/<YYYY-MM-DD>/             first copy of each file
  <output>/duplicates/<YYYY>/<YYYY-MM-DD>/  later copies of the same content
  <output>/unsure/unknown_date/             files with no usable date

Inputs given as arguments replace paths.input_dirs from the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyOrganizeFlags(cmd, *base, flags, args)
			if err != nil {
				return err
			}
			if err := cfg.ValidateRun(); err != nil {
				return err
			}
			if err := runPreflight(cmd, cfg, flags.json); err != nil {
				return err
			}

			level := "warn"
			if flags.verbose {
				level = cfg.Logging.Level
			}
			logger, err := logging.New(logging.Options{
				Level:       level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stderr"},
				FilePath:    filepath.Join(cfg.Paths.LogDir, logging.LogFileName),
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stderr := cmd.ErrOrStderr()
			display := newProgressDisplay(stderr, isTerminal(stderr), flags.actions, flags.json)
			res, err := orgrun.Run(runCtx, cfg, orgrun.Options{Observer: display, Logger: logger})
			display.finish()
			if err != nil {
				return err
			}

			if flags.json {
				return writeJSON(cmd, newSummaryJSON(res, cfg.Organize.Mode))
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSummary(res, cfg.Organize.Mode))
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output directory (overrides paths.output_dir)")
	cmd.Flags().BoolVar(&flags.copy, "copy", false, "Copy files and keep the sources")
	cmd.Flags().BoolVar(&flags.move, "move", false, "Move files out of the input directories")
	cmd.Flags().BoolVar(&flags.fallback, "fallback", true, "Use the file modification time when no capture date is embedded")
	cmd.Flags().BoolVar(&flags.plan, "plan", false, "Compute and report the placement without changing any media file")
	cmd.Flags().StringVar(&flags.hash, "hash", "", "Content hash algorithm: sha256 or md5")
	cmd.Flags().StringVar(&flags.onError, "on-error", "", "On a failed copy/move: abort or skip")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the run summary as JSON")
	cmd.Flags().BoolVar(&flags.actions, "actions", false, "Print every placement line as it happens")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log at the configured level instead of warnings only")
	cmd.MarkFlagsMutuallyExclusive("copy", "move")

	return cmd
}

// applyOrganizeFlags layers command-line overrides onto a copy of the loaded
// configuration.
func applyOrganizeFlags(cmd *cobra.Command, cfg config.Config, flags organizeFlags, args []string) (*config.Config, error) {
	if len(args) > 0 {
		inputs := make([]string, 0, len(args))
		for _, arg := range args {
			expanded, err := config.ExpandPath(strings.TrimSpace(arg))
			if err != nil {
				return nil, fmt.Errorf("input %q: %w", arg, err)
			}
			inputs = append(inputs, expanded)
		}
		cfg.Paths.InputDirs = inputs
	} else {
		cfg.Paths.InputDirs = append([]string(nil), cfg.Paths.InputDirs...)
	}
	if output := strings.TrimSpace(flags.output); output != "" {
		expanded, err := config.ExpandPath(output)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", output, err)
		}
		cfg.Paths.OutputDir = expanded
	}
	switch {
	case flags.copy:
		cfg.Organize.Mode = config.ModeCopy
	case flags.move:
		cfg.Organize.Mode = config.ModeMove
	}
	if cmd.Flags().Changed("fallback") {
		cfg.Organize.FallbackToModTime = flags.fallback
	}
	if flags.plan {
		cfg.Organize.PlanOnly = true
	}
	if hash := strings.ToLower(strings.TrimSpace(flags.hash)); hash != "" {
		cfg.Organize.HashAlgorithm = hash
	}
	if policy := strings.ToLower(strings.TrimSpace(flags.onError)); policy != "" {
		cfg.Organize.OnError = policy
	}
	return &cfg, nil
}

func runPreflight(cmd *cobra.Command, cfg *config.Config, quiet bool) error {
	results := preflight.RunAll(cmd.Context(), cfg)
	if !quiet {
		for _, r := range results {
			if !r.Passed && r.Optional {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", r.Name, r.Detail)
			}
		}
	}
	blocking := preflight.Blocking(results)
	if len(blocking) == 0 {
		return nil
	}
	parts := make([]string, 0, len(blocking))
	for _, r := range blocking {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
}
