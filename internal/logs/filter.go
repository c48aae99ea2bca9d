package logs

import (
	"encoding/json"
	"strings"

	"mediasort/internal/logging"
)

// Filter selects log lines. The zero value accepts everything.
type Filter struct {
	// Contains is a case-insensitive substring every line must contain.
	Contains string
	// RunID keeps JSON records whose run_id starts with this value.
	RunID string
	// Component keeps JSON records from this component.
	Component string
	// MinLevel keeps JSON records at or above debug, info, warn or error.
	MinLevel string
}

func (f Filter) structured() bool {
	return f.RunID != "" || f.Component != "" || f.MinLevel != ""
}

// Match reports whether line passes the filter. Lines that are not JSON
// objects never pass a structured filter.
func (f Filter) Match(line string) bool {
	if f.Contains != "" && !strings.Contains(strings.ToLower(line), strings.ToLower(f.Contains)) {
		return false
	}
	if !f.structured() {
		return true
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		return false
	}
	if f.RunID != "" && !strings.HasPrefix(stringField(record, logging.FieldRunID), f.RunID) {
		return false
	}
	if f.Component != "" && !strings.EqualFold(stringField(record, logging.FieldComponent), f.Component) {
		return false
	}
	if f.MinLevel != "" && levelRank(stringField(record, "level")) < levelRank(f.MinLevel) {
		return false
	}
	return true
}

func stringField(record map[string]any, key string) string {
	value, _ := record[key].(string)
	return value
}

func levelRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return 0
	case "warn", "warning":
		return 2
	case "error":
		return 3
	default:
		return 1
	}
}
