package history_test

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"mediasort/internal/history"
	"mediasort/internal/testsupport"
)

func sampleRun(id string, started time.Time) history.Run {
	return history.Run{
		ID:                id,
		StartedAt:         started,
		FinishedAt:        started.Add(90 * time.Second),
		Status:            history.StatusCompleted,
		Inputs:            []string{"/photos/phone", "/photos/camera"},
		OutputDir:         "/library",
		Mode:              "copy",
		Algorithm:         "sha256",
		InputFiles:        12,
		Organized:         7,
		OrganizedFallback: 2,
		Duplicates:        2,
		Unsure:            1,
		Ignored:           4,
		BytesHashed:       123456,
		LogPath:           "/library/organiser_log.txt",
		ReportPath:        "/library/duplicates_summary.csv",
	}
}

func TestRecordAndList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := sampleRun("11111111-aaaa", base)
	newer := sampleRun("22222222-bbbb", base.Add(500*time.Millisecond))
	newer.Status = history.StatusFailed
	newer.PlanOnly = true
	newer.ReportPath = ""
	newer.ErrorMessage = "placement failed: organizing: /photos/a.jpg: permission denied"

	for _, run := range []history.Run{older, newer} {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != newer.ID || runs[1].ID != older.ID {
		t.Fatalf("unexpected order %+v", runs)
	}
	if !reflect.DeepEqual(runs[1], older) {
		t.Fatalf("round trip mismatch\n got %+v\nwant %+v", runs[1], older)
	}
	if !runs[0].PlanOnly || runs[0].ErrorMessage != newer.ErrorMessage || runs[0].ReportPath != "" {
		t.Fatalf("unexpected failed run %+v", runs[0])
	}
	if runs[1].Duration() != 90*time.Second {
		t.Fatalf("duration %v", runs[1].Duration())
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List limit: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != newer.ID {
		t.Fatalf("unexpected limited list %+v", limited)
	}
}

func TestGetByPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, id := range []string{"abcd1111", "abcd2222", "ffff0000"} {
		if err := store.Record(ctx, sampleRun(id, now)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := store.Get(ctx, "ffff")
	if err != nil || got.ID != "ffff0000" {
		t.Fatalf("Get prefix: %v %+v", err, got)
	}
	if got, err := store.Get(ctx, "abcd1111"); err != nil || got.ID != "abcd1111" {
		t.Fatalf("Get exact: %v %+v", err, got)
	}
	if _, err := store.Get(ctx, "abcd"); err == nil {
		t.Fatal("expected ambiguity error")
	}
	if _, err := store.Get(ctx, "0000dead"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordRequiresID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	if err := store.Record(context.Background(), history.Run{}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	if _, err := history.Open(cfg.Paths.HistoryDB); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
