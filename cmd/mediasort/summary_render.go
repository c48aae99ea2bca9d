package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"mediasort/internal/config"
	"mediasort/internal/orgrun"
)

func renderSummary(res orgrun.Result, mode string) string {
	s := res.Summary
	verb := "copied"
	if mode == config.ModeMove {
		verb = "moved"
	}

	var b strings.Builder
	if res.PlanOnly {
		verb = "planned"
		fmt.Fprintf(&b, "Plan complete for %d files (no media files were changed).\n", s.InputFiles)
	} else {
		fmt.Fprintf(&b, "Done organizing %d files.\n", s.InputFiles)
	}
	fmt.Fprintf(&b, "  - %d files %s using EXIF/metadata\n", s.Organized, verb)
	fmt.Fprintf(&b, "  - %d files %s using modified date\n", s.OrganizedFallback, verb)
	fmt.Fprintf(&b, "  - %d duplicates sent to /duplicates\n", s.Duplicates)
	fmt.Fprintf(&b, "  - %d unsupported files ignored\n", s.Unsupported+s.Ignored)
	fmt.Fprintf(&b, "  - %d files went to /unsure\n", s.Unsure)
	if s.Failed > 0 {
		fmt.Fprintf(&b, "  - %d files failed and were left in place\n", s.Failed)
	}
	fmt.Fprintf(&b, "Total output: %d\n", s.TotalOutput())
	b.WriteString("\n")
	fmt.Fprintf(&b, "Hashed %s in %s\n", humanize.Bytes(uint64(s.BytesHashed)), res.Duration().Round(time.Millisecond))
	if s.LogPath != "" {
		fmt.Fprintf(&b, "Log: %s\n", s.LogPath)
	}
	if s.ReportPath != "" {
		fmt.Fprintf(&b, "Duplicates report: %s\n", s.ReportPath)
	}
	fmt.Fprintf(&b, "Run ID: %s\n", res.RunID)
	return b.String()
}
