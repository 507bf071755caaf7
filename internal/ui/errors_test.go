package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ftr/internal/domain"
)

func TestFormatFailureDetails(t *testing.T) {
	failure := domain.TestFailure{
		JobID:       4,
		FilePath:    "filetests/isa/a.cton",
		Description: "expected [i32] got [i64]",
		File:        "a.cton",
		Line:        12,
	}

	details := formatFailureDetails(failure)
	assert.Contains(t, details, "FAIL filetests/isa/a.cton")
	assert.Contains(t, details, "Location: a.cton:12")
	assert.Contains(t, details, "expected [i32[] got [i64[]")
	assert.NotContains(t, details, "marked resolved")

	failure.Resolved = true
	assert.Contains(t, formatFailureDetails(failure), "marked resolved")
}

func TestFormatFailureStats(t *testing.T) {
	stats := formatFailureStats(domain.TestFailure{JobID: 2}, domain.TestResultsMeta{RunID: "r1"})
	assert.Contains(t, stats, "Unknown path")
	assert.Contains(t, stats, "[yellow]2[white]")
	assert.Contains(t, stats, "r1")
}

func TestListItemText(t *testing.T) {
	f := domain.TestFailure{JobID: 3, FilePath: "a.cton"}
	assert.Equal(t, "[yellow]2.[white] a.cton", listItemText(f, 1))

	f.Resolved = true
	assert.Contains(t, listItemText(f, 1), "✓")

	assert.Contains(t, listItemText(domain.TestFailure{JobID: 9}, 0), "Job 9")
	assert.Equal(t, 1, countUnresolved([]domain.TestFailure{{}, {Resolved: true}}))
}
