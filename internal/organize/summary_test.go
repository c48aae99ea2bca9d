package organize

import (
	"testing"

	"mediasort/internal/placement"
)

func TestSummaryFold(t *testing.T) {
	row := DuplicateRow{Source: "/in/b.jpg", Destination: "/out/duplicates/b.jpg", Original: "/out/a.jpg", Digest: "ab"}
	outcomes := []outcome{
		{class: placement.Organized},
		{class: placement.OrganizedFallback},
		{class: placement.OrganizedFallback},
		{class: placement.Duplicate, duplicate: &row},
		{class: placement.Unsure},
		{unsupported: true},
		{failed: true},
	}
	base := Summary{InputFiles: 7, Ignored: 3}
	got := fold(base, outcomes)

	if got.Organized != 1 || got.OrganizedFallback != 2 || got.Duplicates != 1 ||
		got.Unsure != 1 || got.Unsupported != 1 || got.Failed != 1 {
		t.Fatalf("unexpected counters %+v", got)
	}
	if got.InputFiles != 7 || got.Ignored != 3 {
		t.Fatalf("base fields lost: %+v", got)
	}
	if got.TotalOutput() != 4 {
		t.Fatalf("total output %d, want 4", got.TotalOutput())
	}
	if len(got.DuplicateRows) != 1 || got.DuplicateRows[0] != row {
		t.Fatalf("unexpected rows %+v", got.DuplicateRows)
	}
	if len(base.DuplicateRows) != 0 || base.Organized != 0 {
		t.Fatal("fold must not mutate the base summary")
	}
}

func TestWrapDetail(t *testing.T) {
	err := wrap(ErrHashing, StageHashing, "/in/a.jpg", errTest)
	want := "hashing failed: hashing: /in/a.jpg: boom"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")
