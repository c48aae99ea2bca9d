package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediasort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test:
// one input directory ("in"), an output directory ("out") and a log directory.
// ffprobe points at a path that does not exist unless WithFFprobeStub is used.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDirs = []string{filepath.Join(base, "in")}
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "logs", "history.db")
	cfgVal.Metadata.FFprobeBinary = filepath.Join(base, "bin", "ffprobe-missing")

	if err := os.MkdirAll(cfgVal.Paths.InputDirs[0], 0o755); err != nil {
		t.Fatalf("mkdir input: %v", err)
	}

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithMode sets organize.mode.
func WithMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.Mode = mode
	}
}

// WithPlanOnly toggles organize.plan_only.
func WithPlanOnly(plan bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.PlanOnly = plan
	}
}

// WithFallback toggles organize.fallback_to_modtime.
func WithFallback(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.FallbackToModTime = enabled
	}
}

// WithFFprobeStub writes an ffprobe stub that prints stdout verbatim and
// points the config at it.
func WithFFprobeStub(stdout string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metadata.FFprobeBinary = WriteStub(b.t, filepath.Join(b.baseDir, "bin"), "ffprobe", "cat <<'JSON'\n"+strings.TrimSpace(stdout)+"\nJSON")
	}
}

// WriteStub writes an executable shell script named name into dir and
// returns its path.
func WriteStub(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir stub dir: %v", err)
	}
	target := filepath.Join(dir, name)
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}
