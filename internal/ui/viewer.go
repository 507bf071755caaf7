package ui

import "ftr/internal/domain"

// Viewer displays test results in an interactive TUI
type Viewer interface {
	View(results *domain.TestResultsOutput) error
}

// OutputSaver persists results after the viewer changes them.
type OutputSaver interface {
	SaveOutput(output *domain.TestResultsOutput) error
}
