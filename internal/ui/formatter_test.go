package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ftr/internal/config"
	"ftr/internal/discovery"
	"ftr/internal/domain"
)

func init() {
	color.NoColor = true
}

func newTestFormatter(t *testing.T) (*Formatter, *bytes.Buffer, string) {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	var buf bytes.Buffer
	return NewFormatter(cfg, discovery.NewParser(), &buf), &buf, cfg.ProjectPath
}

func TestFormatter_PrintTestList(t *testing.T) {
	f, buf, root := newTestFormatter(t)
	a := filepath.Join(root, "isa", "a.cton")
	b := filepath.Join(root, "isa", "b.cton")
	require.NoError(t, os.MkdirAll(filepath.Dir(a), 0o755))
	require.NoError(t, os.WriteFile(a, []byte("test verifier\ntest compile\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("function %f() {}\n"), 0o644))

	f.PrintTestList([]string{a, b}, false, map[string]struct{}{b: {}})
	out := buf.String()
	assert.Contains(t, out, "Found 2 test file(s):")
	assert.Contains(t, out, "├── isa/a.cton\n")
	assert.Contains(t, out, "└── isa/b.cton [F]\n")

	buf.Reset()
	f.PrintTestList([]string{a, b}, true, nil)
	out = buf.String()
	assert.Contains(t, out, "with test commands")
	assert.Contains(t, out, "│   ├── verifier\n")
	assert.Contains(t, out, "│   └── compile\n")
	assert.Contains(t, out, "    └── (no test commands found)\n")

	n, err := f.CountTestCommands([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFormatter_PrintMetaStats(t *testing.T) {
	f, buf, root := newTestFormatter(t)

	f.PrintMetaStats(&domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{TotalTestFiles: 4, PassedTestFiles: 4, DurationSeconds: 1.25},
	})
	out := buf.String()
	assert.Contains(t, out, "Test Execution Statistics")
	assert.Contains(t, out, "1.25s")
	assert.Contains(t, out, "sequential")
	assert.Contains(t, out, "All tests passed!")

	buf.Reset()
	f.PrintMetaStats(&domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{TotalTestFiles: 4, PassedTestFiles: 2, FailedTestFiles: 2, Workers: 8},
		Details: []domain.TestFailure{
			{JobID: 1, FilePath: filepath.Join(root, "isa", "x86", "b.cton"), Description: "verifier error"},
			{JobID: 3, FilePath: filepath.Join(root, "isa", "a.cton"), Description: "bad", File: "a.cton", Line: 7},
		},
	})
	out = buf.String()
	assert.Contains(t, out, "2 test file(s) failed")
	lines := strings.Split(out, "\n")
	tree := lines[len(lines)-7:]
	assert.Equal(t, []string{
		"└── isa",
		"    ├── a.cton",
		"    │   a.cton:7: bad",
		"    └── x86",
		"        └── b.cton",
		"            verifier error",
		"",
	}, tree)
}

func TestFormatter_PrintHistory(t *testing.T) {
	f, buf, _ := newTestFormatter(t)

	f.PrintHistory(nil)
	assert.Contains(t, buf.String(), "No runs recorded yet.")

	buf.Reset()
	f.PrintHistory([]domain.RunSummary{
		{RunID: "run-2", StartedAt: time.Now(), Elapsed: 1500 * time.Millisecond, Total: 3, Passed: 3, Workers: 4},
		{RunID: "run-1", StartedAt: time.Now(), Total: 3, Passed: 2, Failed: 1},
	})
	out := buf.String()
	assert.Contains(t, out, "Run History")
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "1.500s")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "FAIL")
	assert.Less(t, strings.Index(out, "run-2"), strings.Index(out, "run-1"))
}

func TestFormatter_PrintJobs(t *testing.T) {
	f, buf, root := newTestFormatter(t)
	f.PrintJobs("run-1", []domain.JobResult{
		{ID: 0, Path: filepath.Join(root, "a.cton"), Passed: true, Elapsed: 20 * time.Millisecond},
		{ID: 1, Path: filepath.Join(root, "b.cton"), Description: "boom"},
	})
	out := buf.String()
	assert.Contains(t, out, "Run run-1")
	assert.Contains(t, out, "a.cton")
	assert.Contains(t, out, "0.020s")
	assert.Contains(t, out, "FAIL: boom")
}
