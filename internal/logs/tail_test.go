package logs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"mediasort/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mediasort.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLastLines(t *testing.T) {
	path := writeLog(t, "a\nb\nc\n")

	lines, offset, err := logs.Last(path, 2, logs.Filter{})
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 2 || lines[0] != "b" || lines[1] != "c" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if offset != 6 {
		t.Fatalf("offset = %d, want 6", offset)
	}

	all, _, err := logs.Last(path, 0, logs.Filter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("expected all lines, got %#v (%v)", all, err)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "none.log"), 10, logs.Filter{})
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("expected empty result, got %#v %d %v", lines, offset, err)
	}
}

func TestFilterStructuredRecords(t *testing.T) {
	content := strings.Join([]string{
		`{"ts":"2024-01-01T00:00:00Z","level":"info","msg":"stage started","component":"organize","run_id":"abcd-1"}`,
		`{"ts":"2024-01-01T00:00:01Z","level":"warn","msg":"skipping unreadable path","component":"scan","run_id":"abcd-1"}`,
		`{"ts":"2024-01-01T00:00:02Z","level":"error","msg":"organize run failed","component":"organize","run_id":"ffff-2"}`,
		`plain text line`,
	}, "\n") + "\n"
	path := writeLog(t, content)

	cases := []struct {
		name   string
		filter logs.Filter
		want   int
	}{
		{"run prefix", logs.Filter{RunID: "abcd"}, 2},
		{"component", logs.Filter{Component: "ORGANIZE"}, 2},
		{"level", logs.Filter{MinLevel: "warn"}, 2},
		{"combined", logs.Filter{RunID: "abcd", MinLevel: "warn"}, 1},
		{"contains", logs.Filter{Contains: "PLAIN"}, 1},
		{"none", logs.Filter{}, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lines, _, err := logs.Last(path, 0, tc.filter)
			if err != nil {
				t.Fatalf("Last: %v", err)
			}
			if len(lines) != tc.want {
				t.Fatalf("got %d lines, want %d: %#v", len(lines), tc.want, lines)
			}
		})
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	_, offset, err := logs.Last(path, 1, logs.Filter{})
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var mu sync.Mutex
	var got []string
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 20*time.Millisecond, logs.Filter{Contains: "keep"}, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
		})
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("keep 1\ndrop\nkeep 2\npartial keep"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	_ = f.Close()

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n >= 2 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Follow returned %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != "keep 1" || got[1] != "keep 2" {
		t.Fatalf("unexpected followed lines %#v", got)
	}
}
