package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"mediasort/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that an input directory exists and can be
// listed. Write access is only needed when files are moved out of it, so it
// is not required here.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "readable")
}

// CheckOutputDirectory verifies that the output root is writable, or that it
// can be created under its nearest existing parent.
func CheckOutputDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}

	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckFFprobe reports whether the container metadata probe is installed.
// The result is optional: a missing ffprobe degrades date resolution for
// videos but does not stop a run.
func CheckFFprobe(ctx context.Context, binary string) Result {
	status := deps.CheckBinaries([]deps.Requirement{deps.FFprobeRequirement(binary)})[0]
	result := Result{Name: status.Name, Optional: true}
	if !status.Available {
		result.Detail = status.Detail + "; videos fall back to modification time"
		return result
	}
	result.Passed = true
	version, err := deps.Version(ctx, status.Path)
	switch {
	case err != nil:
		result.Detail = fmt.Sprintf("%s (version unknown: %v)", status.Path, err)
	case version == "":
		result.Detail = status.Path
	default:
		result.Detail = fmt.Sprintf("%s (%s)", status.Path, version)
	}
	return result
}
