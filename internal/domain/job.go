package domain

import (
	"fmt"
	"time"
)

// JobState is the lifecycle position of a job. States only ever move forward.
type JobState int

const (
	New     JobState = iota // Registered, not yet handed to anything
	Queued                  // Handed to the worker pool, waiting for a worker
	Running                 // An executor is working on it
	Done                    // Finished, Outcome is valid
)

func (s JobState) String() string {
	switch s {
	case New:
		return "new"
	case Queued:
		return "queued"
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Outcome is the result of executing one test file.
type Outcome struct {
	Elapsed     time.Duration // Time taken, only meaningful when the job passed
	Description string        // Why the job failed
	failed      bool
}

// Passed returns a successful outcome that took d.
func Passed(d time.Duration) Outcome {
	return Outcome{Elapsed: d}
}

// Failed returns a failed outcome carrying a human readable description.
func Failed(description string) Outcome {
	return Outcome{Description: description, failed: true}
}

// Failedf is Failed with fmt formatting.
func Failedf(format string, args ...any) Outcome {
	return Failed(fmt.Sprintf(format, args...))
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return !o.failed
}

// Job is one discovered test file plus its execution state.
type Job struct {
	Path    string
	State   JobState
	Outcome Outcome
}

// String renders the report line for the job.
func (j *Job) String() string {
	if j.State != Done {
		return j.Path
	}
	if !j.Outcome.OK() {
		return fmt.Sprintf("FAIL %s: %s", j.Path, j.Outcome.Description)
	}
	d := j.Outcome.Elapsed
	return fmt.Sprintf("%d.%03d %s", d/time.Second, (d%time.Second)/time.Millisecond, j.Path)
}
