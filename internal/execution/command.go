package execution

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"ftr/internal/domain"
	"ftr/internal/parser"
)

// CommandExecutor runs an external checker for each test file
type CommandExecutor struct {
	ctx     context.Context
	command []string
	dir     string
	parser  parser.Parser
}

// NewCommandExecutor creates an executor that runs command with the test
// path appended as the last argument, from working directory dir. Running
// commands are killed once ctx is cancelled.
func NewCommandExecutor(ctx context.Context, command []string, dir string, p parser.Parser) (*CommandExecutor, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, errors.New("executor command is empty")
	}
	return &CommandExecutor{ctx: ctx, command: command, dir: dir, parser: p}, nil
}

// Run executes the command for a single test file
func (c *CommandExecutor) Run(path string) domain.Outcome {
	args := make([]string, 0, len(c.command))
	args = append(args, c.command[1:]...)
	args = append(args, path)

	cmd := exec.CommandContext(c.ctx, c.command[0], args...)

	// Set environment variables
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "FTR_TEST_FILE="+path)
	cmd.Dir = c.dir

	start := time.Now()
	output, err := cmd.CombinedOutput()
	elapsed := time.Since(start)

	if err != nil {
		return domain.Failed(c.parser.Describe(string(output), err))
	}
	return domain.Passed(elapsed)
}
