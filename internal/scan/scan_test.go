package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mediasort/internal/testsupport"
)

func touch(t *testing.T, path string) {
	t.Helper()
	testsupport.WriteFile(t, path, []byte(filepath.Base(path)), time.Time{})
}

func TestSupported(t *testing.T) {
	cases := map[string]bool{
		"a.jpg":           true,
		"a.JPEG":          true,
		"clip.MoV":        true,
		"clip.mp4":        true,
		"shot.heic":       true,
		"icon.png":        true,
		"notes.txt":       false,
		"Thumbs.db":       false,
		"archive.jpg.zip": false,
		"noext":           false,
	}
	for name, want := range cases {
		if got := Supported(filepath.Join("/x", name)); got != want {
			t.Errorf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRunWalksInputsInOrder(t *testing.T) {
	base := t.TempDir()
	first := filepath.Join(base, "first")
	second := filepath.Join(base, "second")
	touch(t, filepath.Join(first, "b.jpg"))
	touch(t, filepath.Join(first, "a.jpg"))
	touch(t, filepath.Join(first, "sub", "c.MOV"))
	touch(t, filepath.Join(first, "readme.txt"))
	touch(t, filepath.Join(first, "THUMBS.DB"))
	touch(t, filepath.Join(second, "z.png"))

	res, err := Run(Options{Inputs: []string{second, first, second + string(filepath.Separator)}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		filepath.Join(second, "z.png"),
		filepath.Join(first, "a.jpg"),
		filepath.Join(first, "b.jpg"),
		filepath.Join(first, "sub", "c.MOV"),
	}
	if len(res.Files) != len(want) {
		t.Fatalf("files = %v, want %v", res.Files, want)
	}
	for i := range want {
		if res.Files[i] != want[i] {
			t.Fatalf("files[%d] = %s, want %s", i, res.Files[i], want[i])
		}
	}
	if res.Ignored != 2 {
		t.Fatalf("ignored = %d, want 2", res.Ignored)
	}
	if len(res.Inaccessible) != 0 {
		t.Fatalf("unexpected inaccessible inputs %v", res.Inaccessible)
	}
}

func TestRunSkipsExcludedOutput(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(in, "sorted")
	touch(t, filepath.Join(in, "a.jpg"))
	touch(t, filepath.Join(out, "2021", "2021-03-04", "a.jpg"))

	res, err := Run(Options{Inputs: []string{in}, Exclude: []string{out}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Files) != 1 || res.Files[0] != filepath.Join(in, "a.jpg") {
		t.Fatalf("unexpected files %v", res.Files)
	}
}

func TestRunInaccessibleInputs(t *testing.T) {
	base := t.TempDir()
	missing := filepath.Join(base, "missing")
	file := filepath.Join(base, "plain.jpg")
	touch(t, file)

	_, err := Run(Options{Inputs: []string{missing, file}})
	if !errors.Is(err, ErrNoInputs) {
		t.Fatalf("expected ErrNoInputs, got %v", err)
	}

	good := filepath.Join(base, "good")
	touch(t, filepath.Join(good, "x.mp4"))
	res, err := Run(Options{Inputs: []string{missing, good}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Inaccessible) != 1 || res.Inaccessible[0] != missing {
		t.Fatalf("inaccessible = %v", res.Inaccessible)
	}
	if len(res.Files) != 1 {
		t.Fatalf("files = %v", res.Files)
	}
}

func TestRunSkipsUnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	in := t.TempDir()
	locked := filepath.Join(in, "locked")
	touch(t, filepath.Join(in, "a.jpg"))
	touch(t, filepath.Join(locked, "b.jpg"))
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	res, err := Run(Options{Inputs: []string{in}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Files) != 1 || filepath.Base(res.Files[0]) != "a.jpg" {
		t.Fatalf("unexpected files %v", res.Files)
	}
}
