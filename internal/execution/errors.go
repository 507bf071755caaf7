package execution

import (
	"fmt"
	"time"
)

// FailuresError is returned by Run when at least one job failed or a
// directory could not be scanned.
type FailuresError struct {
	Count int
}

func (e *FailuresError) Error() string {
	if e.Count == 1 {
		return "1 failure"
	}
	return fmt.Sprintf("%d failures", e.Count)
}

// StallError aborts a run whose workers made no progress for too long.
type StallError struct {
	Ticks    int           // Heartbeats received without a finished job
	Stalled  time.Duration // Ticks times the heartbeat period
	Finished int           // Jobs reported so far
	Total    int           // Jobs known to the runner
	Running  []string      // Paths of jobs that were running when the run aborted
}

func (e *StallError) Error() string {
	return fmt.Sprintf("worker threads stalled for %s seconds with %d/%d tests finished", seconds(e.Stalled), e.Finished, e.Total)
}
