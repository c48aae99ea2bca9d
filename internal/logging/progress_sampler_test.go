package logging

import "testing"

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(10)
	steps := []struct {
		percent float64
		stage   string
		want    bool
	}{
		{0, "Hashing", true},
		{4, "Hashing", false},
		{10, "Hashing", true},
		{19.9, "Hashing", false},
		{50, "Organizing", true},
		{55, "Organizing", false},
		{60, "Organizing", true},
		{120, "Organizing", true},
		{100, "Organizing", false},
	}
	for i, step := range steps {
		if got := s.ShouldLog(step.percent, step.stage); got != step.want {
			t.Fatalf("step %d (%v %s): got %v want %v", i, step.percent, step.stage, got, step.want)
		}
	}
}

func TestProgressSamplerUnknownAndNil(t *testing.T) {
	s := NewProgressSampler(0)
	if !s.ShouldLog(-1, "Scanning") {
		t.Fatal("a new stage should log even without a percentage")
	}
	if s.ShouldLog(-1, "Scanning") {
		t.Fatal("unknown progress within a stage should be suppressed")
	}
	if !s.ShouldLog(50, "Hashing") {
		t.Fatal("first event of a stage should log")
	}
	if s.ShouldLog(54, "Hashing") {
		t.Fatal("event in the same 5% bucket should be suppressed")
	}
	var nilSampler *ProgressSampler
	if !nilSampler.ShouldLog(1, "") {
		t.Fatal("nil sampler should always log")
	}
}
