// Package orgrun wires configuration, logging, locking and the run ledger
// around one organize engine run.
package orgrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"mediasort/internal/config"
	"mediasort/internal/digest"
	"mediasort/internal/history"
	"mediasort/internal/logging"
	"mediasort/internal/metadata"
	"mediasort/internal/notifications"
	"mediasort/internal/organize"
)

// ErrLocked means another run holds the lock for the same output directory.
var ErrLocked = errors.New("output directory is in use by another mediasort run")

// Options configures one invocation.
type Options struct {
	Observer organize.Observer
	// Logger overrides the logger built from the config.
	Logger *slog.Logger
	// Resolver overrides the EXIF/ffprobe date resolver.
	Resolver organize.DateResolver
	// Notifier overrides the ntfy service built from the config.
	Notifier notifications.Service
}

// Result describes a finished run.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	PlanOnly   bool
	Summary    organize.Summary
}

// Duration is the wall time of the run.
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// LockPath returns the lock file guarding cfg's output directory. Locks live
// in the log directory so plan-only runs leave nothing but their artifacts in
// the output tree.
func LockPath(cfg *config.Config) (string, error) {
	sum, _, err := digest.Reader(strings.NewReader(filepath.Clean(cfg.Paths.OutputDir)), digest.SHA256)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg.Paths.LogDir, "locks", sum.Short()+".lock"), nil
}

// Run executes one organize run for cfg and records it in the history
// ledger when enabled. The returned Result is populated even on failure.
func Run(ctx context.Context, cfg *config.Config, opts Options) (Result, error) {
	if cfg == nil {
		return Result{}, fmt.Errorf("config is required")
	}
	if err := cfg.ValidateRun(); err != nil {
		return Result{}, err
	}

	res := Result{RunID: uuid.NewString(), PlanOnly: cfg.Organize.PlanOnly}
	ctx = logging.WithRunID(ctx, res.RunID)

	logger := opts.Logger
	if logger == nil {
		built, err := logging.NewFromConfig(cfg)
		if err != nil {
			return res, fmt.Errorf("init logger: %w", err)
		}
		logger = built
	}
	base := logger
	logger = logging.WithContext(ctx, logging.NewComponentLogger(base, "orgrun"))

	lockPath, err := LockPath(cfg)
	if err != nil {
		return res, fmt.Errorf("lock path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return res, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return res, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return res, fmt.Errorf("%w: %s", ErrLocked, cfg.Paths.OutputDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	logDependencySnapshot(logger, cfg)

	resolver := opts.Resolver
	if resolver == nil {
		resolver = metadata.NewResolver(metadata.Options{
			EXIF:          cfg.Metadata.EXIFEnabled,
			FFprobeBinary: cfg.FFprobeBinary(),
			ProbeTimeout:  time.Duration(cfg.Metadata.ProbeTimeoutSeconds) * time.Second,
		}, base)
	}

	engine := organize.NewEngine(resolver, base)
	res.StartedAt = time.Now()
	logger.Info("organize run starting",
		logging.Any("inputs", cfg.Paths.InputDirs),
		logging.String("output", cfg.Paths.OutputDir),
		logging.String("mode", cfg.Organize.Mode),
		logging.Bool("plan_only", cfg.Organize.PlanOnly),
		logging.String("hash_algorithm", cfg.Organize.HashAlgorithm))

	summary, runErr := engine.Run(ctx, EngineOptions(cfg, opts.Observer))
	res.FinishedAt = time.Now()
	res.Summary = summary

	if cfg.History.Enabled {
		if err := recordHistory(ctx, cfg, res, runErr); err != nil {
			logging.WarnWithContext(logger, "failed to record run history", "history_write_failed",
				"run missing from mediasort history", logging.Error(err))
		}
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	if err := notifyOutcome(ctx, notifier, cfg, res, runErr); err != nil {
		logging.WarnWithContext(logger, "failed to send run notification", "notification_failed",
			"no ntfy message for this run", logging.Error(err))
	}
	return res, runErr
}

// notifyOutcome announces completed and failed runs. Cancelled runs are not
// announced since the user stopped them.
func notifyOutcome(ctx context.Context, notifier notifications.Service, cfg *config.Config, res Result, runErr error) error {
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	s := res.Summary
	outcome := notifications.RunOutcome{
		RunID:      res.RunID,
		Output:     cfg.Paths.OutputDir,
		PlanOnly:   res.PlanOnly,
		InputFiles: s.InputFiles,
		Placed:     s.TotalOutput(),
		Duplicates: s.Duplicates,
		Unsure:     s.Unsure,
		Failed:     s.Failed,
		Bytes:      s.BytesHashed,
		Duration:   res.Duration(),
	}
	ctx = context.WithoutCancel(ctx)
	if runErr != nil {
		return notifier.NotifyRunFailed(ctx, outcome, runErr)
	}
	return notifier.NotifyRunCompleted(ctx, outcome)
}

// EngineOptions maps configuration onto organize engine options.
func EngineOptions(cfg *config.Config, observer organize.Observer) organize.Options {
	return organize.Options{
		Inputs:            append([]string(nil), cfg.Paths.InputDirs...),
		Output:            cfg.Paths.OutputDir,
		Mode:              organize.Mode(cfg.Organize.Mode),
		FallbackToModTime: cfg.Organize.FallbackToModTime,
		PlanOnly:          cfg.Organize.PlanOnly,
		Algorithm:         digest.Algorithm(cfg.Organize.HashAlgorithm),
		OnError:           organize.ErrorPolicy(cfg.Organize.OnError),
		Observer:          observer,
	}
}

func recordHistory(ctx context.Context, cfg *config.Config, res Result, runErr error) error {
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	status := history.StatusCompleted
	var message string
	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled):
		status = history.StatusCancelled
		message = runErr.Error()
	default:
		status = history.StatusFailed
		message = runErr.Error()
	}

	s := res.Summary
	// Record even when the run context was cancelled.
	return store.Record(context.WithoutCancel(ctx), history.Run{
		ID:                res.RunID,
		StartedAt:         res.StartedAt,
		FinishedAt:        res.FinishedAt,
		Status:            status,
		Inputs:            cfg.Paths.InputDirs,
		OutputDir:         cfg.Paths.OutputDir,
		Mode:              cfg.Organize.Mode,
		PlanOnly:          cfg.Organize.PlanOnly,
		Algorithm:         cfg.Organize.HashAlgorithm,
		InputFiles:        s.InputFiles,
		Organized:         s.Organized,
		OrganizedFallback: s.OrganizedFallback,
		Duplicates:        s.Duplicates,
		Unsure:            s.Unsure,
		Unsupported:       s.Unsupported,
		Ignored:           s.Ignored,
		Failed:            s.Failed,
		BytesHashed:       s.BytesHashed,
		LogPath:           s.LogPath,
		ReportPath:        s.ReportPath,
		ErrorMessage:      message,
	})
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	ffprobe := cfg.FFprobeBinary()
	logger.Info("dependency snapshot",
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.Bool("exif_enabled", cfg.Metadata.EXIFEnabled),
		logging.Bool("ffprobe_available", binaryAvailable(ffprobe)),
		logging.String("ffprobe_binary", ffprobe),
		logging.Bool("history_enabled", cfg.History.Enabled),
	)
}

func binaryAvailable(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}
