// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no mediasort-specific dependencies.
//
// Key types:
//   - Result: parsed ffprobe output containing container and stream tags
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns the parsed Result
//   - ParseCreationTime: parses the ISO-8601 creation_time tag
package ffprobe
