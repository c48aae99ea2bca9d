// Package logs reads the persistent mediasort log and per-run organiser logs.
//
// Reads use bounded memory: Last keeps a ring of the trailing lines and
// Follow streams appended lines by polling from a byte offset. Filter selects
// JSON records by run, component or level and plain lines by substring.
package logs
