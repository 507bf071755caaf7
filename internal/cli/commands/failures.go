package commands

import (
	"github.com/spf13/cobra"

	"ftr/internal/cli"
	"ftr/internal/storage"
	"ftr/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	env       *Env
	storage   *storage.JSONStorage
	formatter *ui.Formatter
	flags     *cli.Flags
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(env *Env, st *storage.JSONStorage, formatter *ui.Formatter) *FailuresCommand {
	return &FailuresCommand{
		env:       env,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	results, err := fc.storage.Load()
	if err != nil {
		return err
	}

	if fc.flags != nil && fc.flags.Stats {
		fc.formatter.PrintMetaStats(results)
		return nil
	}
	return ui.NewErrorViewer(fc.storage, fc.env.Logger).View(results)
}
