// Package config loads, normalizes, and validates mediasort configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEDIASORT_OUTPUT_DIR. The Config type centralizes every knob the organize
// engine and CLI need so input roots, the output tree and the ffprobe binary
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical mode names, and clear validation errors.
package config
