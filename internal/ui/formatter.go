package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ftr/internal/config"
	"ftr/internal/discovery"
	"ftr/internal/domain"
)

var (
	heading = color.New(color.FgCyan)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	fileCol = color.New(color.FgYellow)
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	parser *discovery.Parser
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to w
func NewFormatter(cfg *config.Config, parser *discovery.Parser, w io.Writer) *Formatter {
	return &Formatter{
		config: cfg,
		parser: parser,
		out:    w,
	}
}

// PrintMetaStats displays the statistics of a saved run and a tree of its failures
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) {
	meta := output.Meta

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("Test Execution Statistics")
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.AppendRows([]table.Row{
		{"Total Test Files", meta.TotalTestFiles},
		{"Passed Test Files", good.Sprint(meta.PassedTestFiles)},
		{"Failed Test Files", bad.Sprint(meta.FailedTestFiles)},
		{"Scan Errors", meta.ScanErrors},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Workers", workersLabel(meta.Workers)},
		{"Timestamp", meta.Timestamp},
	})
	if meta.RunID != "" {
		t.AppendRow(table.Row{"Run", meta.RunID})
	}
	t.Render()

	fmt.Fprintln(f.out)
	if meta.FailedTestFiles == 0 {
		good.Fprintln(f.out, "✓ All tests passed!")
		return
	}
	bad.Fprintf(f.out, "✗ %d test file(s) failed\n\n", meta.FailedTestFiles)
	f.printFailedTestsTree(output.Details)
}

func workersLabel(n int) string {
	if n == 0 {
		return "sequential"
	}
	return fmt.Sprint(n)
}

// TreeNode represents a node in the file tree structure
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Failure  *domain.TestFailure
}

// printFailedTestsTree prints the failed test files grouped by directory
func (f *Formatter) printFailedTestsTree(failures []domain.TestFailure) {
	root := &TreeNode{Children: make(map[string]*TreeNode)}

	for i := range failures {
		failure := &failures[i]
		parts := strings.Split(filepath.ToSlash(f.relative(failure.FilePath)), "/")
		current := root
		for _, part := range parts {
			if part == "" || part == "." {
				continue
			}
			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{Name: part, Children: make(map[string]*TreeNode)}
			}
			current = current.Children[part]
		}
		current.Failure = failure
	}

	f.printTreeNode(root, "")
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string) {
	keys := make([]string, 0, len(node.Children))
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		last := i == len(keys)-1

		connector, next := "├── ", "│   "
		if last {
			connector, next = "└── ", "    "
		}

		if child.Failure != nil {
			fileCol.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
			bad.Fprintf(f.out, "%s%s%s\n", prefix, next, failureSummary(child.Failure))
		} else {
			heading.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
		}
		f.printTreeNode(child, prefix+next)
	}
}

func failureSummary(failure *domain.TestFailure) string {
	if failure.File != "" && failure.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", failure.File, failure.Line, failure.Description)
	}
	return failure.Description
}

func (f *Formatter) relative(path string) string {
	if f.config == nil || f.config.ProjectPath == "" {
		return path
	}
	rel, err := filepath.Rel(f.config.ProjectPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// CountTestCommands returns the total number of test commands across the given test files.
func (f *Formatter) CountTestCommands(tests []string) (int, error) {
	var total int
	for _, test := range tests {
		commands, err := f.parser.FindTestCommands(test)
		if err != nil {
			return 0, err
		}
		total += len(commands)
	}
	return total, nil
}

// PrintTestList prints a list of test files, optionally with their test commands.
// Files in failedPaths (from the last run) are marked with [F].
func (f *Formatter) PrintTestList(tests []string, showCommands bool, failedPaths map[string]struct{}) {
	if showCommands {
		good.Fprintf(f.out, "Found %d test file(s) with test commands:\n\n", len(tests))
	} else {
		good.Fprintf(f.out, "Found %d test file(s):\n\n", len(tests))
	}

	for i, test := range tests {
		last := i == len(tests)-1
		connector, indent := "├── ", "│   "
		if last {
			connector, indent = "└── ", "    "
		}

		failMarker := ""
		if _, ok := failedPaths[filepath.Clean(test)]; ok {
			failMarker = " " + color.RedString("[F]")
		}
		heading.Fprintf(f.out, "%s%s", connector, f.relative(test))
		fmt.Fprintln(f.out, failMarker)

		if !showCommands {
			continue
		}
		commands, err := f.parser.FindTestCommands(test)
		switch {
		case err != nil:
			bad.Fprintf(f.out, "%s└── error reading test file: %v\n", indent, err)
		case len(commands) == 0:
			bad.Fprintf(f.out, "%s└── (no test commands found)\n", indent)
		default:
			for j, command := range commands {
				c := "├── "
				if j == len(commands)-1 {
					c = "└── "
				}
				fileCol.Fprintf(f.out, "%s%s%s\n", indent, c, command)
			}
		}
	}
}

// PrintHistory prints past runs, newest first.
func (f *Formatter) PrintHistory(runs []domain.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(f.out, "No runs recorded yet.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("Run History")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Run", "Started", "Duration", "Tests", "Passed", "Failed", "Scan Errors", "Workers", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Scan Errors", Align: text.AlignRight},
		{Name: "Workers", Align: text.AlignRight},
	})

	for _, r := range runs {
		t.AppendRow(table.Row{
			r.RunID,
			r.StartedAt.Local().Format(time.DateTime),
			formatDuration(r.Elapsed),
			r.Total,
			r.Passed,
			r.Failed,
			r.ScanErrors,
			workersLabel(r.Workers),
			runStatus(r),
		})
	}
	t.Render()
}

// PrintJobs prints the recorded jobs of one run in job id order.
func (f *Formatter) PrintJobs(runID string, jobs []domain.JobResult) {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle(fmt.Sprintf("Run %s", runID))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Test", "Duration", "Result"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "ID", Align: text.AlignRight},
		{Name: "Test", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Result", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, j := range jobs {
		result := good.Sprint("ok")
		duration := formatDuration(j.Elapsed)
		if !j.Passed {
			result = bad.Sprint("FAIL: " + j.Description)
			duration = "-"
		}
		t.AppendRow(table.Row{j.ID, f.relative(j.Path), duration, result})
	}
	t.Render()
}

func runStatus(r domain.RunSummary) string {
	if r.Failed == 0 && r.ScanErrors == 0 {
		return good.Sprint("PASS")
	}
	return bad.Sprint("FAIL")
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
