package execution

import "ftr/internal/domain"

// Executor runs a single test case file. Implementations must be safe to call
// from several workers at once.
type Executor interface {
	Run(path string) domain.Outcome
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(path string) domain.Outcome

// Run calls f(path).
func (f ExecutorFunc) Run(path string) domain.Outcome {
	return f(path)
}
