package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/acarl005/stripansi"

	"ftr/internal/domain"
)

var (
	// file.cton:12: message  or  file.cton:12:4: message
	locationPattern = regexp.MustCompile(`^(\S+?):(\d+)(?::\d+)?:\s*(.*)$`)
	// "... on line 12" / "line 12: ..."
	linePattern  = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)
	errorPattern = regexp.MustCompile(`(?i)\b(error|fail(ed|ure)?|panic(ked)?|mismatch)\b`)
)

// OutputParser extracts failure descriptions and locations from the output
// of an executor command.
type OutputParser struct{}

// NewOutputParser creates a new OutputParser
func NewOutputParser() *OutputParser {
	return &OutputParser{}
}

// Describe condenses command output into a one-line failure description.
// The first located diagnostic wins, then the first line mentioning an error,
// then the last non-empty line. err is used when the output is empty.
func (p *OutputParser) Describe(output string, err error) string {
	lines := nonEmptyLines(output)

	for _, line := range lines {
		if locationPattern.MatchString(line) {
			return line
		}
	}
	for _, line := range lines {
		if errorPattern.MatchString(line) {
			return line
		}
	}
	if len(lines) > 0 {
		return lines[len(lines)-1]
	}
	if err != nil {
		return err.Error()
	}
	return "failed without output"
}

// ParseFailure builds the failure record for a failed job, pulling a file and
// line out of the description when it carries one.
func (p *OutputParser) ParseFailure(result domain.JobResult) domain.TestFailure {
	failure := domain.TestFailure{
		JobID:       result.ID,
		FilePath:    result.Path,
		Description: result.Description,
	}

	if m := locationPattern.FindStringSubmatch(result.Description); m != nil {
		failure.File = m[1]
		failure.Line, _ = strconv.Atoi(m[2])
		return failure
	}
	if m := linePattern.FindStringSubmatch(result.Description); m != nil {
		failure.File = result.Path
		failure.Line, _ = strconv.Atoi(m[1])
	}
	return failure
}

func nonEmptyLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(stripansi.Strip(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
