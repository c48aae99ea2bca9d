// Package dedup groups scanned files by content digest.
//
// The index is filled during the hashing pass and frozen before placement.
// Within a group the first record in arrival order is the canonical original;
// every later record is a duplicate of it, whatever their resolved dates.
package dedup

import (
	"errors"
	"time"

	"mediasort/internal/digest"
)

// MinYear is the sanity floor for capture dates. Earlier years predate
// consumer digital photography and are treated as corrupt metadata.
const MinYear = 1978

// ErrFrozen is returned when recording into an index after Freeze.
var ErrFrozen = errors.New("dedup: index is frozen")

// Record is one scanned file. A zero Date means no date was resolved.
type Record struct {
	Path         string
	Date         time.Time
	UsedFallback bool
	Size         int64
}

// HasDate reports whether a date was resolved for the record.
func (r Record) HasDate() bool { return !r.Date.IsZero() }

// Group is the ordered set of records sharing a digest.
type Group struct {
	Digest  digest.Digest
	Records []Record
}

// Original returns the canonical first-seen record.
func (g Group) Original() Record { return g.Records[0] }

// BestDate returns the group's best date; see BestDate.
func (g Group) BestDate() (time.Time, bool) { return BestDate(g.Records) }

// BestDate returns the earliest resolved date among records whose year is at
// least MinYear.
func BestDate(records []Record) (time.Time, bool) {
	var best time.Time
	found := false
	for _, rec := range records {
		if !rec.HasDate() || rec.Date.Year() < MinYear {
			continue
		}
		if !found || rec.Date.Before(best) {
			best = rec.Date
			found = true
		}
	}
	return best, found
}

// Index maps digests to groups, preserving first-arrival order of digests
// and arrival order of records within each digest.
type Index struct {
	order  []digest.Digest
	groups map[digest.Digest]*Group
	count  int
	frozen bool
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{groups: make(map[digest.Digest]*Group)}
}

// Record appends rec to the group for d.
func (ix *Index) Record(d digest.Digest, rec Record) error {
	if ix.frozen {
		return ErrFrozen
	}
	g, ok := ix.groups[d]
	if !ok {
		g = &Group{Digest: d}
		ix.groups[d] = g
		ix.order = append(ix.order, d)
	}
	g.Records = append(g.Records, rec)
	ix.count++
	return nil
}

// Freeze stops further recording.
func (ix *Index) Freeze() { ix.frozen = true }

// Len returns the number of recorded files.
func (ix *Index) Len() int { return ix.count }

// Digests returns the number of distinct digests.
func (ix *Index) Digests() int { return len(ix.order) }

// Groups returns copies of every group in first-arrival order.
func (ix *Index) Groups() []Group {
	out := make([]Group, 0, len(ix.order))
	for _, d := range ix.order {
		g := ix.groups[d]
		out = append(out, Group{Digest: g.Digest, Records: append([]Record(nil), g.Records...)})
	}
	return out
}
