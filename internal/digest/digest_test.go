package digest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestKnownVectors(t *testing.T) {
	cases := []struct {
		alg  Algorithm
		in   string
		want Digest
	}{
		{SHA256, "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{SHA256, "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{MD5, "", "d41d8cd98f00b204e9800998ecf8427e"},
		{MD5, "abc", "900150983cd24fb0d6963f7d28e17f72"},
	}
	for _, tc := range cases {
		got, n, err := Reader(strings.NewReader(tc.in), tc.alg)
		if err != nil {
			t.Fatalf("%s(%q): %v", tc.alg, tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%s(%q) = %s, want %s", tc.alg, tc.in, got, tc.want)
		}
		if n != int64(len(tc.in)) {
			t.Fatalf("%s(%q) consumed %d bytes", tc.alg, tc.in, n)
		}
		if len(got) != tc.alg.HexLen() {
			t.Fatalf("%s digest length %d, want %d", tc.alg, len(got), tc.alg.HexLen())
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	for in, want := range map[string]Algorithm{"": SHA256, "SHA256": SHA256, " md5 ": MD5} {
		got, err := ParseAlgorithm(in)
		if err != nil || got != want {
			t.Fatalf("ParseAlgorithm(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseAlgorithm("sha1"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestFileIgnoresNameAndLocation(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte("media"), 5000) // spans several chunks
	paths := []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "nested", "deeper", "COPY.JPG"),
		filepath.Join(dir, "other.Jpeg"),
	}
	for _, p := range paths {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, payload, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var first Digest
	for i, p := range paths {
		d, n, err := File(p, SHA256)
		if err != nil {
			t.Fatalf("File(%s): %v", p, err)
		}
		if n != int64(len(payload)) {
			t.Fatalf("File(%s) read %d bytes, want %d", p, n, len(payload))
		}
		if i == 0 {
			first = d
			continue
		}
		if d != first {
			t.Fatalf("digest of %s = %s, want %s", p, d, first)
		}
	}
}

func TestFileMissingIsError(t *testing.T) {
	_, _, err := File(filepath.Join(t.TempDir(), "gone.jpg"), MD5)
	if err == nil {
		t.Fatal("expected error for unreadable file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestShort(t *testing.T) {
	if got := Digest("0123456789abcdef").Short(); got != "0123456789ab" {
		t.Fatalf("Short() = %q", got)
	}
	if got := Digest("abc").Short(); got != "abc" {
		t.Fatalf("Short() = %q", got)
	}
}

func TestDigestProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("identical content yields identical digests", prop.ForAll(
		func(data []byte, alg Algorithm) bool {
			a, _, errA := Reader(bytes.NewReader(data), alg)
			b, _, errB := Reader(bytes.NewReader(append([]byte(nil), data...)), alg)
			return errA == nil && errB == nil && a == b
		},
		gen.SliceOf(gen.UInt8()),
		gen.OneConstOf(SHA256, MD5),
	))

	properties.Property("a single flipped byte changes the digest", prop.ForAll(
		func(data []byte, pos int, alg Algorithm) bool {
			if len(data) == 0 {
				return true
			}
			mutated := append([]byte(nil), data...)
			mutated[pos%len(data)] ^= 0xff
			a, _, _ := Reader(bytes.NewReader(data), alg)
			b, _, _ := Reader(bytes.NewReader(mutated), alg)
			return a != b
		},
		gen.SliceOf(gen.UInt8()),
		gen.IntRange(0, 1<<16),
		gen.OneConstOf(SHA256, MD5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
