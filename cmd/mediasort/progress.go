package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mediasort/internal/organize"
)

// progressDisplay renders engine events. On a terminal it drives a progress
// bar; elsewhere it prints one line per stage.
type progressDisplay struct {
	out         io.Writer
	bar         *progressbar.ProgressBar
	showActions bool
	quiet       bool
	title       cases.Caser
}

func newProgressDisplay(out io.Writer, interactive, showActions, quiet bool) *progressDisplay {
	p := &progressDisplay{
		out:         out,
		showActions: showActions,
		quiet:       quiet,
		title:       cases.Title(language.Und),
	}
	if interactive && !quiet {
		p.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("Starting"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	return p
}

func (p *progressDisplay) Notify(ev organize.Event) {
	switch ev.Kind {
	case organize.EventStage:
		switch ev.Stage {
		case organize.StageScanning, organize.StageHashing, organize.StageOrganizing:
			label := p.title.String(strings.ToLower(string(ev.Stage)))
			if p.bar != nil {
				p.bar.Describe(label)
			} else if !p.quiet {
				fmt.Fprintf(p.out, "%s...\n", label)
			}
		}
	case organize.EventProgress:
		if p.bar != nil {
			_ = p.bar.Set(int(math.Round(ev.Percent)))
		}
	case organize.EventLog:
		if !p.showActions || p.quiet {
			return
		}
		if p.bar != nil {
			_ = p.bar.Clear()
		}
		fmt.Fprintln(p.out, ev.Line)
	}
}

func (p *progressDisplay) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
