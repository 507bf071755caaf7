package execution

import (
	"time"

	"ftr/internal/discovery"
	"ftr/internal/domain"
)

// FileCheckExecutor is the built-in executor used when no command is
// configured. A test file passes when it can be read and declares at least one
// test command.
type FileCheckExecutor struct {
	parser *discovery.Parser
}

// NewFileCheckExecutor creates a new FileCheckExecutor
func NewFileCheckExecutor(p *discovery.Parser) *FileCheckExecutor {
	return &FileCheckExecutor{parser: p}
}

// Run checks a single test file.
func (e *FileCheckExecutor) Run(path string) domain.Outcome {
	start := time.Now()
	commands, err := e.parser.FindTestCommands(path)
	if err != nil {
		return domain.Failed(err.Error())
	}
	if len(commands) == 0 {
		return domain.Failed("no test commands found")
	}
	return domain.Passed(time.Since(start))
}
