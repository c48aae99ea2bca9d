package organize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mediasort/internal/dedup"
	"mediasort/internal/digest"
	"mediasort/internal/fileutil"
	"mediasort/internal/logging"
	"mediasort/internal/metadata"
	"mediasort/internal/placement"
	"mediasort/internal/scan"
)

// Mode selects whether sources are kept after placement.
type Mode string

const (
	ModeCopy Mode = "copy"
	ModeMove Mode = "move"
)

// ErrorPolicy decides what a failed copy or move does to the run.
type ErrorPolicy string

const (
	OnErrorAbort ErrorPolicy = "abort"
	OnErrorSkip  ErrorPolicy = "skip"
)

// Options are the parameters of one run.
type Options struct {
	Inputs            []string
	Output            string
	Mode              Mode
	FallbackToModTime bool
	PlanOnly          bool
	Algorithm         digest.Algorithm
	OnError           ErrorPolicy
	Observer          Observer
}

// DateResolver supplies capture dates. *metadata.Resolver satisfies it.
type DateResolver interface {
	Resolve(ctx context.Context, path string) (metadata.Capture, bool)
}

// Engine executes organize runs. An Engine holds no per-run state and may be
// reused for consecutive runs.
type Engine struct {
	resolver DateResolver
	logger   *slog.Logger
}

// NewEngine constructs an engine. A nil logger discards output.
func NewEngine(resolver DateResolver, logger *slog.Logger) *Engine {
	return &Engine{resolver: resolver, logger: logging.NewComponentLogger(logger, "organize")}
}

type run struct {
	ctx      context.Context
	opts     Options
	output   string
	logger   *slog.Logger
	emit     *emitter
	sampler  *logging.ProgressSampler
	lines    []string
	resolver DateResolver
}

// Run executes the scan, hash and organize passes and writes the run
// artifacts. On failure the returned summary reflects the work done so far
// and partial output is left in place.
func (e *Engine) Run(ctx context.Context, opts Options) (Summary, error) {
	r := &run{
		ctx:      ctx,
		opts:     opts,
		logger:   logging.WithContext(ctx, e.logger),
		emit:     &emitter{observer: opts.Observer, stage: StageIdle},
		sampler:  logging.NewProgressSampler(5),
		resolver: e.resolver,
	}
	summary, err := r.execute()
	if err != nil {
		r.emit.setStage(StageFailed)
		r.logger.Error("organize run failed",
			logging.String(logging.FieldEventType, "organize_failed"),
			logging.Error(err))
		return summary, err
	}
	r.emit.setStage(StageComplete)
	r.logger.Info("organize run completed",
		logging.Int("input_files", summary.InputFiles),
		logging.Int("organized", summary.Organized),
		logging.Int("organized_fallback", summary.OrganizedFallback),
		logging.Int("duplicates", summary.Duplicates),
		logging.Int("unsure", summary.Unsure),
		logging.Int("failed", summary.Failed),
		logging.Bool("plan_only", opts.PlanOnly))
	return summary, nil
}

func (r *run) execute() (Summary, error) {
	if err := r.validate(); err != nil {
		return Summary{}, err
	}
	if err := r.prepareOutput(); err != nil {
		return Summary{}, err
	}

	files, base, err := r.scan()
	if err != nil {
		return base, err
	}

	index, bytesHashed, err := r.hash(files)
	base.BytesHashed = bytesHashed
	if err != nil {
		return base, err
	}

	outcomes, err := r.place(index)
	summary := fold(base, outcomes)
	if err != nil {
		return summary, err
	}

	if summary.LogPath, err = writeLog(r.output, r.lines); err != nil {
		return summary, wrap(ErrOutputUnavailable, StageOrganizing, "write log", err)
	}
	if summary.ReportPath, err = writeReport(r.output, summary.DuplicateRows); err != nil {
		return summary, wrap(ErrOutputUnavailable, StageOrganizing, "write duplicates report", err)
	}
	return summary, nil
}

func (r *run) validate() error {
	if r.resolver == nil {
		return wrap(ErrInvalidOptions, "", "no date resolver configured", nil)
	}
	if len(r.opts.Inputs) == 0 {
		return wrap(ErrNoInputs, StageScanning, "no input directories given", nil)
	}
	if strings.TrimSpace(r.opts.Output) == "" {
		return wrap(ErrInvalidOptions, "", "output directory is required", nil)
	}
	switch r.opts.Mode {
	case "":
		r.opts.Mode = ModeMove
	case ModeCopy, ModeMove:
	default:
		return wrap(ErrInvalidOptions, "", fmt.Sprintf("unknown mode %q", r.opts.Mode), nil)
	}
	switch r.opts.OnError {
	case "":
		r.opts.OnError = OnErrorAbort
	case OnErrorAbort, OnErrorSkip:
	default:
		return wrap(ErrInvalidOptions, "", fmt.Sprintf("unknown error policy %q", r.opts.OnError), nil)
	}
	alg, err := digest.ParseAlgorithm(string(r.opts.Algorithm))
	if err != nil {
		return wrap(ErrInvalidOptions, "", "hash algorithm", err)
	}
	r.opts.Algorithm = alg
	return nil
}

// prepareOutput makes sure the output root exists and is a directory. The
// root is created even for plan-only runs since it receives the log.
func (r *run) prepareOutput() error {
	abs, err := filepath.Abs(r.opts.Output)
	if err != nil {
		return wrap(ErrOutputUnavailable, "", "resolve output path", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return wrap(ErrOutputUnavailable, "", "create output directory", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return wrap(ErrOutputUnavailable, "", "stat output directory", err)
	}
	if !info.IsDir() {
		return wrap(ErrOutputUnavailable, "", abs+" is not a directory", nil)
	}
	r.output = abs
	return nil
}

func (r *run) scan() ([]string, Summary, error) {
	r.enter(StageScanning)
	r.line("Scanning files...")

	res, err := scan.Run(scan.Options{
		Inputs:  r.opts.Inputs,
		Exclude: []string{r.output},
		Logger:  r.logger,
	})
	base := Summary{InputFiles: len(res.Files), Ignored: res.Ignored}
	if errors.Is(err, scan.ErrNoInputs) {
		return nil, base, wrap(ErrNoInputs, StageScanning, "enumerate inputs", nil)
	}
	if err != nil {
		return nil, base, wrap(ErrInvalidOptions, StageScanning, "enumerate inputs", err)
	}
	r.line(fmt.Sprintf("Found %d supported files.", len(res.Files)))
	r.logger.Info("scan completed",
		logging.Int("files", len(res.Files)),
		logging.Int("ignored", res.Ignored),
		logging.Int("inaccessible_inputs", len(res.Inaccessible)))
	return res.Files, base, nil
}

func (r *run) hash(files []string) (*dedup.Index, int64, error) {
	r.enter(StageHashing)
	index := dedup.NewIndex()
	total := len(files)
	var bytesHashed int64

	for i, path := range files {
		if err := r.ctx.Err(); err != nil {
			return index, bytesHashed, err
		}
		rec := r.record(path)
		sum, size, err := digest.File(path, r.opts.Algorithm)
		if err != nil {
			return index, bytesHashed, wrap(ErrHashing, StageHashing, path, err)
		}
		rec.Size = size
		bytesHashed += size
		if err := index.Record(sum, rec); err != nil {
			return index, bytesHashed, wrap(ErrHashing, StageHashing, path, err)
		}
		r.progress(float64(i+1) / float64(total) * 50)
	}
	index.Freeze()
	r.logger.Info("hashing completed",
		logging.Int("files", index.Len()),
		logging.Int("unique", index.Digests()),
		logging.Int64("bytes", bytesHashed))
	return index, bytesHashed, nil
}

// record resolves the date of path. A file whose modification time cannot
// be read stays undated; hashing reports the underlying failure.
func (r *run) record(path string) dedup.Record {
	rec := dedup.Record{Path: path}
	if capture, ok := r.resolver.Resolve(r.ctx, path); ok {
		rec.Date = capture.Time
		return rec
	}
	if !r.opts.FallbackToModTime {
		return rec
	}
	info, err := os.Stat(path)
	if err != nil {
		r.logger.Debug("modification time unavailable", logging.String(logging.FieldPath, path), logging.Error(err))
		return rec
	}
	rec.Date = info.ModTime()
	rec.UsedFallback = true
	return rec
}

func (r *run) place(index *dedup.Index) ([]outcome, error) {
	r.enter(StageOrganizing)
	total := index.Len()
	placed := 0
	outcomes := make([]outcome, 0, total)

	for _, group := range index.Groups() {
		best, hasBest := group.BestDate()
		var original string
		for i, rec := range group.Records {
			if err := r.ctx.Err(); err != nil {
				return outcomes, err
			}
			o, dst, err := r.placeOne(group.Digest, rec, best, hasBest, i > 0, original)
			if err != nil {
				return outcomes, err
			}
			if i == 0 {
				original = dst
				if o.failed {
					// The original stayed where it was found.
					original = rec.Path
				}
			}
			outcomes = append(outcomes, o)
			placed++
			r.progress(50 + float64(placed)/float64(total)*50)
		}
	}
	if total == 0 {
		r.progress(100)
	}
	return outcomes, nil
}

func (r *run) placeOne(sum digest.Digest, rec dedup.Record, best time.Time, hasBest, duplicate bool, original string) (outcome, string, error) {
	if !scan.Supported(rec.Path) {
		r.logger.Debug("unsupported file skipped during placement", logging.String(logging.FieldPath, rec.Path))
		return outcome{unsupported: true}, "", nil
	}

	dec := placement.Plan(rec, best, hasBest, duplicate)
	dst := dec.Path(r.output)

	if !r.opts.PlanOnly {
		if err := r.transfer(rec.Path, dst); err != nil {
			if r.opts.OnError != OnErrorSkip {
				return outcome{}, dst, wrap(ErrPlacement, StageOrganizing, rec.Path, err)
			}
			r.line(fmt.Sprintf("[ERROR] %s -> %s: %v", rec.Path, dst, err))
			logging.WarnWithContext(r.logger, "placement failed; continuing", "placement_failed",
				"file left at its source location",
				logging.String(logging.FieldPath, rec.Path),
				logging.String("destination", dst),
				logging.Error(err))
			return outcome{failed: true}, dst, nil
		}
	}

	o := outcome{class: dec.Classification}
	if dec.Classification == placement.Duplicate {
		r.line(fmt.Sprintf("[DUPLICATE] %s -> %s (duplicate of %s)", rec.Path, dst, original))
		o.duplicate = &DuplicateRow{Source: rec.Path, Destination: dst, Original: original, Digest: sum}
	} else {
		r.line(fmt.Sprintf("[MOVE] %s -> %s", rec.Path, dst))
	}
	return o, dst, nil
}

func (r *run) transfer(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if r.opts.Mode == ModeCopy {
		return fileutil.CopyFile(src, dst)
	}
	return fileutil.MoveFile(src, dst)
}

func (r *run) enter(stage Stage) {
	r.emit.setStage(stage)
	r.ctx = logging.WithStage(r.ctx, string(stage))
	r.logger.Info("stage started", logging.String(logging.FieldStage, string(stage)))
}

func (r *run) progress(percent float64) {
	r.emit.progress(percent)
	if r.sampler.ShouldLog(percent, string(r.emit.stage)) {
		r.logger.Debug("progress",
			logging.String(logging.FieldStage, string(r.emit.stage)),
			logging.Float64("percent", percent))
	}
}

func (r *run) line(text string) {
	r.lines = append(r.lines, text)
	r.emit.line(text)
}
