package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"ftr/internal/cli"
	"ftr/internal/storage"
	"ftr/internal/ui"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	env       *Env
	formatter *ui.Formatter
	flags     *cli.Flags
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(env *Env, formatter *ui.Formatter) *HistoryCommand {
	return &HistoryCommand{
		env:       env,
		formatter: formatter,
	}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := hc.env.Config
	if cfg.Store.Driver == "" {
		return errors.New("no history store configured, set --store-driver or store.driver")
	}

	st, err := storage.OpenSQLStore(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if hc.flags != nil && hc.flags.RunID != "" {
		jobs, err := st.Jobs(ctx, hc.flags.RunID)
		if err != nil {
			return err
		}
		hc.formatter.PrintJobs(hc.flags.RunID, jobs)
		return nil
	}

	limit := 20
	if hc.flags != nil && hc.flags.Limit > 0 {
		limit = hc.flags.Limit
	}
	runs, err := st.History(ctx, limit)
	if err != nil {
		return err
	}
	hc.formatter.PrintHistory(runs)
	return nil
}
