package execution

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"

	"ftr/internal/domain"
)

var (
	failLabel  = color.New(color.FgRed, color.Bold)
	stallColor = color.New(color.FgYellow)
)

// printReportLine writes the report line of a finished job. Only the FAIL
// marker is coloured so the rest of the line stays greppable.
func printReportLine(w io.Writer, job *domain.Job) {
	if job.Outcome.OK() {
		printf(w, "%s\n", job)
		return
	}
	printf(w, "%s %s: %s\n", failLabel.Sprint("FAIL"), job.Path, job.Outcome.Description)
}

func printStalled(w io.Writer, stalled time.Duration, finished, total int) {
	stallColor.Fprintf(w, "STALLED for %s seconds with %d/%d tests finished\n", seconds(stalled), finished, total)
}

// seconds renders d as a plain number of seconds: "3", "0.006".
func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Round(time.Millisecond).Seconds(), 'f', -1, 64)
}

// printf writes to the report stream, ignoring write errors.
func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
