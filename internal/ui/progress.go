package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"ftr/internal/domain"
)

// ProgressBar shows run progress on a terminal. It implements
// execution.Listener. The total is unknown until the first job starts and
// grows as the scanner discovers more tests.
type ProgressBar struct {
	bar     *progressbar.ProgressBar
	started int
	passed  int
	failed  int
}

// NewProgressBar creates a progress bar rendering to w
func NewProgressBar(w io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

func describe(passed, failed int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[success: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}

// JobStarted extends the bar to cover the newly started job.
func (p *ProgressBar) JobStarted(id int, _ string) {
	if id+1 > p.started {
		p.started = id + 1
		p.bar.ChangeMax(p.started)
	}
}

// JobFinished advances the bar.
func (p *ProgressBar) JobFinished(_ int, job domain.Job) {
	if job.Outcome.OK() {
		p.passed++
	} else {
		p.failed++
	}
	p.Update(p.passed, p.failed)
}

// Update updates the progress bar with success and failure counts
func (p *ProgressBar) Update(successCount, failCount int) {
	_ = p.bar.Set(successCount + failCount)
	p.bar.Describe(describe(successCount, failCount))
}

// Counts returns the number of passed and failed jobs seen so far.
func (p *ProgressBar) Counts() (passed, failed int) {
	return p.passed, p.failed
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}
