package placement

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"mediasort/internal/dedup"
)

func TestPlanRules(t *testing.T) {
	best := time.Date(2021, 3, 4, 9, 0, 0, 0, time.UTC)
	primary := dedup.Record{Path: "/in/sub/a.jpg", Date: best}
	fallback := dedup.Record{Path: "/in/b.mov", Date: best, UsedFallback: true}
	undated := dedup.Record{Path: "/in/c.png"}

	cases := []struct {
		name    string
		rec     dedup.Record
		hasBest bool
		dup     bool
		dir     string
		class   Classification
	}{
		{"dated original", primary, true, false, filepath.Join("2021", "2021-03-04"), Organized},
		{"dated fallback original", fallback, true, false, filepath.Join("2021", "2021-03-04"), OrganizedFallback},
		{"dated duplicate", primary, true, true, filepath.Join("duplicates", "2021", "2021-03-04"), Duplicate},
		{"fallback duplicate", fallback, true, true, filepath.Join("duplicates", "2021", "2021-03-04"), Duplicate},
		{"undated original", undated, false, false, filepath.Join("unsure", "unknown_date"), Unsure},
		{"undated duplicate", undated, false, true, filepath.Join("duplicates", "unknown_date"), Duplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b time.Time
			if tc.hasBest {
				b = best
			}
			got := Plan(tc.rec, b, tc.hasBest, tc.dup)
			if got.Dir != tc.dir {
				t.Fatalf("dir %q want %q", got.Dir, tc.dir)
			}
			if got.Classification != tc.class {
				t.Fatalf("class %q want %q", got.Classification, tc.class)
			}
			if got.Name != filepath.Base(tc.rec.Path) {
				t.Fatalf("name %q changed", got.Name)
			}
		})
	}
}

func TestPlanUsesGroupDateNotRecordDate(t *testing.T) {
	rec := dedup.Record{Path: "/in/b.jpg", Date: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)}
	best := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	got := Plan(rec, best, true, true)
	if got.Path("/out") != filepath.Join("/out", "duplicates", "2021", "2021-03-04", "b.jpg") {
		t.Fatalf("unexpected path %s", got.Path("/out"))
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("planning twice yields identical decisions", prop.ForAll(
		func(name string, dayOffset int, hasBest, dup, fallback bool) bool {
			best := time.Date(1978, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset)
			rec := dedup.Record{Path: filepath.Join("/in", name+".jpg"), Date: best, UsedFallback: fallback}
			return Plan(rec, best, hasBest, dup) == Plan(rec, best, hasBest, dup)
		},
		gen.AlphaString(),
		gen.IntRange(0, 20000),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
