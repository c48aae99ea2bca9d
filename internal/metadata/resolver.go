// Package metadata resolves a best-known capture timestamp for a media file
// from embedded EXIF tags or container metadata.
//
// Resolution is best effort: every failure (missing tag, unreadable header,
// absent or failing ffprobe, malformed timestamp) is logged at debug level and
// reported as "no date". The resolver never consults the filesystem
// modification time; that fallback is the caller's policy.
package metadata

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"mediasort/internal/logging"
	"mediasort/internal/media/ffprobe"
)

// EXIFLayout is the fixed pattern of EXIF date/time tags.
const EXIFLayout = "2006:01:02 15:04:05"

// Source identifies where a capture date came from.
type Source string

const (
	SourceEXIF      Source = "exif"
	SourceContainer Source = "container"
)

// Capture is a resolved capture timestamp.
type Capture struct {
	Time   time.Time
	Source Source
}

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".heic": {},
}

// IsImage reports whether path has an extension whose EXIF tags are consulted.
func IsImage(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Options configures a Resolver.
type Options struct {
	EXIF          bool
	FFprobeBinary string
	ProbeTimeout  time.Duration
}

// Resolver extracts capture dates. It is safe for sequential reuse across a
// run; the ffprobe availability check happens once.
type Resolver struct {
	opts   Options
	logger *slog.Logger

	probeOnce sync.Once
	probeOK   bool
}

// NewResolver constructs a Resolver. A nil logger discards output.
func NewResolver(opts Options, logger *slog.Logger) *Resolver {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 10 * time.Second
	}
	if strings.TrimSpace(opts.FFprobeBinary) == "" {
		opts.FFprobeBinary = "ffprobe"
	}
	return &Resolver{opts: opts, logger: logging.NewComponentLogger(logger, "metadata")}
}

// Resolve returns the capture date of path, if one can be found. Image
// files try EXIF first; every file then tries container metadata.
func (r *Resolver) Resolve(ctx context.Context, path string) (Capture, bool) {
	if r.opts.EXIF && IsImage(path) {
		ts, err := ReadEXIFDate(path)
		if err == nil {
			return Capture{Time: ts, Source: SourceEXIF}, true
		}
		r.logger.Debug("exif date unavailable", logging.String(logging.FieldPath, path), logging.Error(err))
	}

	if !r.probeAvailable() {
		return Capture{}, false
	}

	probeCtx, cancel := context.WithTimeout(ctx, r.opts.ProbeTimeout)
	defer cancel()
	result, err := ffprobe.Inspect(probeCtx, r.opts.FFprobeBinary, path)
	if err != nil {
		r.logger.Debug("container probe failed", logging.String(logging.FieldPath, path), logging.Error(err))
		return Capture{}, false
	}
	raw, ok := result.CreationTime()
	if !ok {
		return Capture{}, false
	}
	ts, err := ffprobe.ParseCreationTime(raw)
	if err != nil {
		r.logger.Debug("container creation_time unparsable", logging.String(logging.FieldPath, path), logging.Error(err))
		return Capture{}, false
	}
	return Capture{Time: ts, Source: SourceContainer}, true
}

func (r *Resolver) probeAvailable() bool {
	r.probeOnce.Do(func() {
		if _, err := exec.LookPath(r.opts.FFprobeBinary); err != nil {
			logging.WarnWithContext(r.logger, "ffprobe not found; container dates disabled for this run",
				"ffprobe_missing", "videos without EXIF fall back to modification time or unsure",
				logging.String("binary", r.opts.FFprobeBinary))
			return
		}
		r.probeOK = true
	})
	return r.probeOK
}

var errNoEXIFDate = errors.New("exif: no date tag")

// ReadEXIFDate returns DateTimeOriginal, or DateTime when the original
// capture tag is absent, interpreted in the local time zone. PNG files are
// read from their eXIf chunk.
func ReadEXIFDate(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	var src io.Reader = bufio.NewReader(f)
	if strings.EqualFold(filepath.Ext(path), ".png") {
		payload, err := pngEXIF(src)
		if err != nil {
			return time.Time{}, err
		}
		src = bytes.NewReader(payload)
	}

	x, err := exif.Decode(src)
	if err != nil {
		return time.Time{}, err
	}

	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		if err != nil {
			continue
		}
		value = strings.TrimSpace(strings.TrimRight(value, "\x00"))
		if ts, err := time.ParseInLocation(EXIFLayout, value, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, errNoEXIFDate
}
