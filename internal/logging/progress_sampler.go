package logging

import "strings"

// ProgressSampler thins the per-file progress stream of a run down to one
// debug record per bucket of percent. Hashing and organizing each report a
// share of the run-wide percentage; entering a new stage always emits.
type ProgressSampler struct {
	bucketSize float64
	stage      string
	bucket     int
}

// NewProgressSampler returns a sampler with the given bucket width in
// percent. Non-positive widths default to 5.
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 5
	}
	return &ProgressSampler{bucketSize: bucketSize, bucket: -1}
}

// ShouldLog reports whether progress at percent within stage is worth a log
// record. Negative percentages are treated as unknown and only a stage
// change lets them through. A nil sampler logs everything.
func (s *ProgressSampler) ShouldLog(percent float64, stage string) bool {
	if s == nil {
		return true
	}
	emit := false
	if stage = strings.TrimSpace(stage); stage != "" && stage != s.stage {
		s.stage = stage
		s.bucket = -1
		emit = true
	}
	if percent < 0 {
		return emit
	}
	bucket := int(min(percent, 100) / s.bucketSize)
	if bucket > s.bucket {
		s.bucket = bucket
		emit = true
	}
	return emit
}
