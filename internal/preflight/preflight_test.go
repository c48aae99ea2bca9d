package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediasort/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckReadableDirectory("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutputDirectory_Creatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out")
	result := CheckOutputDirectory("out", path)
	if !result.Passed {
		t.Fatalf("expected pass for creatable output, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("check must not create the directory")
	}
}

func TestCheckFFprobe(t *testing.T) {
	missing := CheckFFprobe(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if missing.Passed || !missing.Optional {
		t.Fatalf("expected optional failure, got %#v", missing)
	}

	stub := testsupport.WriteStub(t, t.TempDir(), "ffprobe", "echo 'ffprobe version 7.0'\n")
	present := CheckFFprobe(context.Background(), stub)
	if !present.Passed {
		t.Fatalf("expected pass, got %#v", present)
	}
	if !strings.Contains(present.Detail, "ffprobe version 7.0") {
		t.Fatalf("unexpected detail %q", present.Detail)
	}
}

func TestRunAllAndBlocking(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.InputDirs = append(cfg.Paths.InputDirs, filepath.Join(t.TempDir(), "gone"))
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	want := []string{"Input directory 1", "Input directory 2", "Output directory", "Log directory", "FFprobe"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("checks %v, want %v", names, want)
	}

	if results[1].Passed || !results[1].Optional {
		t.Fatalf("missing input should be an optional failure, got %#v", results[1])
	}
	if blocking := Blocking(results); len(blocking) != 0 {
		t.Fatalf("unexpected blocking results %#v", blocking)
	}

	cfg.Paths.OutputDir = filepath.Join(cfg.Paths.InputDirs[0], "file.jpg")
	if err := os.WriteFile(cfg.Paths.OutputDir, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	blocking := Blocking(RunAll(context.Background(), cfg))
	if len(blocking) != 1 || blocking[0].Name != "Output directory" {
		t.Fatalf("unexpected blocking results %#v", blocking)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if RunAll(context.Background(), nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
