// Package placement decides where each scanned file lands in the output tree.
package placement

import (
	"path/filepath"
	"time"

	"mediasort/internal/dedup"
)

// Classification is the counter bucket a placed file falls into.
type Classification string

const (
	Organized         Classification = "organized"
	OrganizedFallback Classification = "organized-fallback"
	Duplicate         Classification = "duplicate"
	Unsure            Classification = "unsure"
)

// Output subtree names.
const (
	DuplicatesDir  = "duplicates"
	UnsureDir      = "unsure"
	UnknownDateDir = "unknown_date"
)

// Decision is the destination of one file relative to the output root.
type Decision struct {
	Dir            string
	Name           string
	Classification Classification
}

// Path joins the decision onto root.
func (d Decision) Path(root string) string {
	return filepath.Join(root, d.Dir, d.Name)
}

// Plan computes the placement of rec given its group's best date and whether
// rec is a duplicate of an earlier group member. The result depends only on
// its inputs. The file name is kept as is; collisions inside a destination
// directory are not disambiguated.
func Plan(rec dedup.Record, best time.Time, hasBest bool, duplicate bool) Decision {
	dec := Decision{Name: filepath.Base(rec.Path)}

	switch {
	case hasBest && duplicate:
		dec.Dir = filepath.Join(DuplicatesDir, dateDir(best))
	case hasBest:
		dec.Dir = dateDir(best)
	case duplicate:
		dec.Dir = filepath.Join(DuplicatesDir, UnknownDateDir)
	default:
		dec.Dir = filepath.Join(UnsureDir, UnknownDateDir)
	}

	switch {
	case duplicate:
		dec.Classification = Duplicate
	case !hasBest:
		dec.Classification = Unsure
	case rec.UsedFallback:
		dec.Classification = OrganizedFallback
	default:
		dec.Classification = Organized
	}
	return dec
}

func dateDir(t time.Time) string {
	return filepath.Join(t.Format("2006"), t.Format("2006-01-02"))
}
