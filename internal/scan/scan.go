// Package scan enumerates supported media files under a set of input
// directories.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mediasort/internal/logging"
)

// ThumbnailCache is the Windows thumbnail database excluded from every scan.
const ThumbnailCache = "thumbs.db"

var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".mov":  {},
	".mp4":  {},
	".heic": {},
}

// ErrNoInputs is returned when none of the input directories can be read.
var ErrNoInputs = errors.New("scan: no accessible input directories")

// Supported reports whether path is a media file the organizer handles.
// Extension matching is case-insensitive and the thumbnail cache is never
// supported.
func Supported(path string) bool {
	name := filepath.Base(path)
	if strings.EqualFold(name, ThumbnailCache) {
		return false
	}
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Options configures a scan.
type Options struct {
	Inputs []string
	// Exclude lists directories whose subtrees are skipped, typically the
	// output root when it sits inside an input.
	Exclude []string
	Logger  *slog.Logger
}

// Result lists the candidate files in enumeration order.
type Result struct {
	Files []string
	// Ignored counts regular files skipped for their extension.
	Ignored int
	// Inaccessible lists input roots that could not be opened.
	Inaccessible []string
}

// Run walks every input in the given order. Within an input, entries are
// visited in lexical order. Unreadable subdirectories are logged and
// skipped; an unreadable input root is recorded in Inaccessible. Run fails
// with ErrNoInputs only when every input is inaccessible.
func Run(opts Options) (Result, error) {
	logger := logging.NewComponentLogger(opts.Logger, "scan")
	var res Result

	exclude := make(map[string]struct{}, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		if dir = strings.TrimSpace(dir); dir != "" {
			exclude[filepath.Clean(dir)] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(opts.Inputs))
	accessible := 0
	for _, input := range opts.Inputs {
		root := filepath.Clean(input)
		if _, dup := seen[root]; dup {
			logger.Debug("duplicate input directory ignored", logging.String(logging.FieldPath, root))
			continue
		}
		seen[root] = struct{}{}

		ok, err := walkInput(root, exclude, &res, logger)
		if err != nil {
			return Result{}, err
		}
		if ok {
			accessible++
		} else {
			res.Inaccessible = append(res.Inaccessible, root)
		}
	}

	if accessible == 0 {
		return res, ErrNoInputs
	}
	return res, nil
}

func walkInput(root string, exclude map[string]struct{}, res *Result, logger *slog.Logger) (bool, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", root)
		}
		logging.WarnWithContext(logger, "input directory not accessible", "input_inaccessible",
			"files under this input are not organized",
			logging.String(logging.FieldPath, root), logging.Error(err))
		return false, nil
	}

	rootOK := true
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				rootOK = false
				logging.WarnWithContext(logger, "input directory not readable", "input_inaccessible",
					"files under this input are not organized",
					logging.String(logging.FieldPath, root), logging.Error(err))
				return fs.SkipDir
			}
			logging.WarnWithContext(logger, "skipping unreadable path", "scan_unreadable",
				"files under this path are not organized",
				logging.String(logging.FieldPath, path), logging.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if _, skip := exclude[path]; skip && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !Supported(path) {
			res.Ignored++
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("scan: resolve %s: %w", path, err)
		}
		res.Files = append(res.Files, abs)
		return nil
	})
	if err != nil {
		return false, err
	}
	return rootOK, nil
}
