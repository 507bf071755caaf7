package domain

// TestFailure represents a failed test file
type TestFailure struct {
	JobID       int    `json:"job_id"`
	FilePath    string `json:"file_path"`
	Description string `json:"description"`
	File        string `json:"file,omitempty"` // Location reported by the executor, if any
	Line        int    `json:"line,omitempty"`
	Resolved    bool   `json:"resolved,omitempty"` // Track if failure is marked as resolved
}
