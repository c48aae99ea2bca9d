// Package preflight provides readiness checks for the directories and
// external binaries mediasort depends on.
//
// These checks run in two contexts:
//   - The organize command calls RunAll before a run. Failing required
//     checks stop the run before any file is touched.
//   - The CLI "mediasort check" command renders every result, including the
//     optional ones, as a table.
package preflight
