package domain

import (
	"testing"
	"time"
)

func TestJob_String(t *testing.T) {
	tests := []struct {
		name     string
		job      Job
		expected string
	}{
		{
			name:     "not finished",
			job:      Job{Path: "a/b.cton", State: Running},
			expected: "a/b.cton",
		},
		{
			name:     "passed",
			job:      Job{Path: "a/b.cton", State: Done, Outcome: Passed(1234 * time.Millisecond)},
			expected: "1.234 a/b.cton",
		},
		{
			name:     "passed sub-millisecond",
			job:      Job{Path: "x.cton", State: Done, Outcome: Passed(999 * time.Microsecond)},
			expected: "0.000 x.cton",
		},
		{
			name:     "passed with padding",
			job:      Job{Path: "x.cton", State: Done, Outcome: Passed(3*time.Second + 7*time.Millisecond)},
			expected: "3.007 x.cton",
		},
		{
			name:     "failed",
			job:      Job{Path: "x.cton", State: Done, Outcome: Failed("syntax error on line 3")},
			expected: "FAIL x.cton: syntax error on line 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.job.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestOutcome(t *testing.T) {
	if !Passed(time.Second).OK() {
		t.Error("expected Passed outcome to be OK")
	}
	o := Failedf("%d errors", 2)
	if o.OK() {
		t.Error("expected Failed outcome not to be OK")
	}
	if o.Description != "2 errors" {
		t.Errorf("expected description %q, got %q", "2 errors", o.Description)
	}
}

func TestJobState_String(t *testing.T) {
	states := map[JobState]string{New: "new", Queued: "queued", Running: "running", Done: "done", JobState(42): "unknown"}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("expected %s, got %s", want, s.String())
		}
	}
}
