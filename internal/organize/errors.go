package organize

import (
	"errors"
	"fmt"
	"strings"

	"mediasort/internal/scan"
)

var (
	// ErrNoInputs means no input directory could be read.
	ErrNoInputs = scan.ErrNoInputs
	// ErrOutputUnavailable means the output root cannot be created or written.
	ErrOutputUnavailable = errors.New("output directory unavailable")
	// ErrHashing marks a file that could not be read for hashing.
	ErrHashing = errors.New("hashing failed")
	// ErrPlacement marks a failed directory creation, copy, or move.
	ErrPlacement = errors.New("placement failed")
	// ErrInvalidOptions marks options rejected before the run starts.
	ErrInvalidOptions = errors.New("invalid organize options")
)

// wrap tags err with marker and a stage/operation prefix so callers can both
// classify the failure with errors.Is and read where it happened.
func wrap(marker error, stage Stage, operation string, err error) error {
	detail := buildDetail(string(stage), operation)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation string) string {
	parts := make([]string, 0, 2)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, strings.ToLower(stage))
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if len(parts) == 0 {
		return "organize"
	}
	return strings.Join(parts, ": ")
}
