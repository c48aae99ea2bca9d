// Package organize runs the two-pass media organize pipeline.
//
// A run scans the input directories, hashes every supported file while
// resolving its capture date, then walks the resulting digest groups and
// places each file under the output root. The first file seen for a digest
// is the original; later files with the same content go to the duplicates
// subtree dated by the group's earliest plausible capture date. Progress,
// stage changes and action lines are delivered to an Observer so callers can
// render them without the engine knowing how.
//
// A run ends by writing organiser_log.txt and, when duplicates were found,
// duplicates_summary.csv to the output root. Plan-only runs compute and
// report the same placement without touching any media file.
package organize
