package commands

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ftr/internal/cli"
	"ftr/internal/discovery"
	"ftr/internal/storage"
	"ftr/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	env       *Env
	formatter *ui.Formatter
	storage   *storage.JSONStorage
	flags     *cli.Flags
}

// NewListCommand creates a new ListCommand
func NewListCommand(env *Env, formatter *ui.Formatter, st *storage.JSONStorage) *ListCommand {
	return &ListCommand{
		env:       env,
		formatter: formatter,
		storage:   st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := lc.env.Config
	scanner := discovery.NewScanner(cfg.Extension)
	filter := discovery.NewFilter(cfg.NameFilter)

	var tests []string
	for _, root := range rootPaths(lc.env, args) {
		if fi, err := os.Stat(root); err == nil && fi.Mode().IsRegular() {
			tests = append(tests, root)
			continue
		}
		scanner.Push(root)
		found, batches := scanner.Collect()
		for _, b := range batches {
			if b.Err != nil {
				color.Red("%s: %v", b.Dir, b.Err)
			}
		}
		tests = append(tests, filter.FilterByName(found)...)
	}

	if len(tests) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	lc.formatter.PrintTestList(tests, lc.flags != nil && lc.flags.TestCommands, lc.failedPaths())
	return nil
}

// failedPaths returns the files that failed in the last saved run, if any.
func (lc *ListCommand) failedPaths() map[string]struct{} {
	results, err := lc.storage.Load()
	if err != nil {
		return nil
	}
	paths := make(map[string]struct{}, len(results.Details))
	for _, f := range results.Details {
		if !f.Resolved {
			paths[filepath.Clean(f.FilePath)] = struct{}{}
		}
	}
	return paths
}
