package domain

import "time"

// JobResult is the final record of one job, in job-id order.
type JobResult struct {
	ID          int
	Path        string
	Passed      bool
	Elapsed     time.Duration
	Description string
}

// RunSummary describes a finished run.
type RunSummary struct {
	RunID      string
	StartedAt  time.Time
	Elapsed    time.Duration
	Total      int
	Passed     int
	Failed     int
	Errors     int // Failed jobs plus scan errors
	ScanErrors int
	Workers    int // 0 when the run was sequential
	Jobs       []JobResult
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	TotalTestFiles  int     `json:"total_test_files"`
	FailedTestFiles int     `json:"failed_test_files"`
	PassedTestFiles int     `json:"passed_test_files"`
	ScanErrors      int     `json:"scan_errors"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestFailure   `json:"details"`
}
