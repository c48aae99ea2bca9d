package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result represents the parsed tag output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes the tags of a single stream in the media container.
type Stream struct {
	Index     int               `json:"index"`
	CodecType string            `json:"codec_type"`
	Tags      map[string]string `json:"tags"`
}

// Format captures container-level tags extracted by ffprobe.
type Format struct {
	Filename string            `json:"filename"`
	Tags     map[string]string `json:"tags"`
}

const creationTimeTag = "creation_time"

// Inspect executes ffprobe against path and decodes the container and
// stream tags. A non-zero exit is returned as an error carrying ffprobe's
// combined output.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-hide_banner",
		"-show_entries", "format=filename:format_tags=creation_time:stream=index,codec_type:stream_tags=creation_time",
		"-of", "json",
		"--", path,
	)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// CreationTime returns the raw creation_time tag, preferring the container
// tag and falling back to the first video stream carrying one.
func (r Result) CreationTime() (string, bool) {
	if v := lookupTag(r.Format.Tags, creationTimeTag); v != "" {
		return v, true
	}
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, "video") {
			continue
		}
		if v := lookupTag(stream.Tags, creationTimeTag); v != "" {
			return v, true
		}
	}
	return "", false
}

// ParseCreationTime parses an ISO-8601 creation_time value. A trailing "Z"
// is UTC; fractional seconds and a missing zone are accepted.
func ParseCreationTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if strings.HasSuffix(value, "Z") {
		value = strings.TrimSuffix(value, "Z") + "+00:00"
	}
	layouts := []string{
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("ffprobe: unrecognised creation_time %q", value)
}

func lookupTag(tags map[string]string, key string) string {
	if v, ok := tags[key]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range tags {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
