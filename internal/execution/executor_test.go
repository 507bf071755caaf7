package execution

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ftr/internal/discovery"
	"ftr/internal/parser"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileCheckExecutor(t *testing.T) {
	dir := t.TempDir()
	e := NewFileCheckExecutor(discovery.NewParser())

	tests := []struct {
		name     string
		path     string
		wantOK   bool
		wantDesc string
	}{
		{
			name:   "declares a test",
			path:   writeFile(t, dir, "ok.cton", "test verifier\nfunction %f() {}\n"),
			wantOK: true,
		},
		{
			name:     "no test line",
			path:     writeFile(t, dir, "empty.cton", "function %f() {}\n"),
			wantDesc: "no test commands found",
		},
		{
			name:     "unreadable",
			path:     filepath.Join(dir, "missing.cton"),
			wantDesc: "no such file or directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.Run(tt.path)
			assert.Equal(t, tt.wantOK, out.OK())
			if !tt.wantOK {
				assert.Contains(t, out.Description, tt.wantDesc)
			}
		})
	}
}

func TestCommandExecutor(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	script := `grep -q '^test' "$1" || { echo "$1:3: no test line"; exit 1; }`
	e, err := NewCommandExecutor(context.Background(), []string{"sh", "-c", script, "sh"}, dir, parser.NewOutputParser())
	require.NoError(t, err)

	pass := writeFile(t, dir, "pass.cton", "test compile\n")
	out := e.Run(pass)
	assert.True(t, out.OK(), out.Description)

	fail := writeFile(t, dir, "fail.cton", "function %f() {}\n")
	out = e.Run(fail)
	require.False(t, out.OK())
	assert.Equal(t, fail+":3: no test line", out.Description)
}

func TestCommandExecutor_Environment(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	e, err := NewCommandExecutor(context.Background(), []string{"sh", "-c", `echo "got $FTR_TEST_FILE"; exit 3`, "sh"}, dir, parser.NewOutputParser())
	require.NoError(t, err)

	out := e.Run("x.cton")
	require.False(t, out.OK())
	assert.Equal(t, "got x.cton", out.Description)
}

func TestCommandExecutor_Missing(t *testing.T) {
	_, err := NewCommandExecutor(context.Background(), nil, "", parser.NewOutputParser())
	assert.Error(t, err)

	e, err := NewCommandExecutor(context.Background(), []string{"/nonexistent/ftr-checker"}, "", parser.NewOutputParser())
	require.NoError(t, err)
	out := e.Run("a.cton")
	assert.False(t, out.OK())
	assert.NotEmpty(t, out.Description)
}

func TestCommandExecutor_Cancelled(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx, cancel := context.WithCancel(context.Background())
	e, err := NewCommandExecutor(ctx, []string{"sh", "-c", "exit 0", "sh"}, t.TempDir(), parser.NewOutputParser())
	require.NoError(t, err)

	require.True(t, e.Run("a.cton").OK())

	cancel()
	out := e.Run("a.cton")
	require.False(t, out.OK())
	assert.Contains(t, out.Description, "context canceled")
}
