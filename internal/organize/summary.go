package organize

import (
	"mediasort/internal/digest"
	"mediasort/internal/placement"
)

// DuplicateRow is one line of the duplicates report.
type DuplicateRow struct {
	Source      string
	Destination string
	Original    string
	Digest      digest.Digest
}

// Summary aggregates one run. Counters are built by folding placement
// outcomes, so a plan-only run and a real run over the same inputs produce
// equal summaries.
type Summary struct {
	InputFiles        int
	Organized         int
	OrganizedFallback int
	Duplicates        int
	Unsupported       int
	Unsure            int
	// Ignored counts files the scan skipped for their extension.
	Ignored int
	// Failed counts files whose copy or move failed under the skip policy.
	Failed      int
	BytesHashed int64

	DuplicateRows []DuplicateRow
	LogPath       string
	ReportPath    string
}

// TotalOutput is the number of files placed into the dated and duplicate
// trees.
func (s Summary) TotalOutput() int {
	return s.Organized + s.OrganizedFallback + s.Duplicates
}

type outcome struct {
	class       placement.Classification
	unsupported bool
	failed      bool
	duplicate   *DuplicateRow
}

func (s Summary) add(o outcome) Summary {
	switch {
	case o.unsupported:
		s.Unsupported++
		return s
	case o.failed:
		s.Failed++
		return s
	}
	switch o.class {
	case placement.Organized:
		s.Organized++
	case placement.OrganizedFallback:
		s.OrganizedFallback++
	case placement.Unsure:
		s.Unsure++
	case placement.Duplicate:
		s.Duplicates++
		if o.duplicate != nil {
			rows := make([]DuplicateRow, len(s.DuplicateRows), len(s.DuplicateRows)+1)
			copy(rows, s.DuplicateRows)
			s.DuplicateRows = append(rows, *o.duplicate)
		}
	}
	return s
}

func fold(base Summary, outcomes []outcome) Summary {
	for _, o := range outcomes {
		base = base.add(o)
	}
	return base
}
