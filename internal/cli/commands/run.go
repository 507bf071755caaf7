package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ftr/internal/discovery"
	"ftr/internal/domain"
	"ftr/internal/execution"
	"ftr/internal/metrics"
	"ftr/internal/parser"
	"ftr/internal/storage"
	"ftr/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	env     *Env
	storage storage.Storage
	parser  parser.Parser
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(env *Env, st storage.Storage) *RunCommand {
	return &RunCommand{
		env:     env,
		storage: st,
		parser:  parser.NewOutputParser(),
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.env.Config
	logger := rc.env.Logger.New("cmd", "run")

	executor, err := rc.newExecutor(cmd.Context())
	if err != nil {
		return err
	}

	opts := execution.Options{
		Verbose:    cfg.Verbose,
		Extension:  cfg.Extension,
		Filter:     discovery.NewFilter(cfg.NameFilter),
		Heartbeat:  cfg.Heartbeat,
		SlowTicks:  cfg.SlowTicks,
		PanicTicks: cfg.PanicTicks,
		Out:        cmd.OutOrStdout(),
		Logger:     rc.env.Logger,
	}
	var progress *ui.ProgressBar
	if cfg.Progress {
		progress = ui.NewProgressBar(cmd.ErrOrStderr())
		opts.Listener = progress
	}

	runner := execution.NewTestRunner(executor, opts)
	pushRoots(runner, rootPaths(rc.env, args))
	if cfg.Concurrent() {
		runner.StartThreads(cfg.Workers)
	}

	_, runErr := runner.Run()
	if progress != nil {
		progress.Finish()
	}

	var stall *execution.StallError
	if errors.As(runErr, &stall) {
		return runErr
	}

	summary := runner.Summary()
	summary.RunID = storage.NewRunID()
	if err := rc.record(summary); err != nil {
		if runErr == nil {
			return err
		}
		logger.Error("Failed to record results", "err", err)
	}
	return runErr
}

func (rc *RunCommand) newExecutor(ctx context.Context) (execution.Executor, error) {
	cfg := rc.env.Config
	if len(cfg.Command) > 0 {
		if ctx == nil {
			ctx = context.Background()
		}
		return execution.NewCommandExecutor(ctx, cfg.Command, cfg.ProjectPath, rc.parser)
	}
	return execution.NewFileCheckExecutor(discovery.NewParser()), nil
}

// record saves the run to the JSON file, the history store and the metrics file.
func (rc *RunCommand) record(summary domain.RunSummary) error {
	cfg := rc.env.Config

	var failures []domain.TestFailure
	for _, job := range summary.Jobs {
		if !job.Passed {
			failures = append(failures, rc.parser.ParseFailure(job))
		}
	}

	stores := storage.Multi{rc.storage}
	if cfg.Store.Driver != "" {
		sqlStore, err := storage.OpenSQLStore(cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return err
		}
		defer sqlStore.Close()
		stores = append(stores, sqlStore)
	}
	if err := stores.Save(summary, failures); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	if cfg.MetricsFile != "" {
		m := metrics.New()
		m.Observe(summary)
		if err := m.WriteFile(cfg.MetricsFile); err != nil {
			return err
		}
	}
	rc.env.Logger.Debug("Recorded run", "run", summary.RunID, "failures", len(failures))
	return nil
}

// rootPaths resolves the command-line paths, falling back to the default test directory.
func rootPaths(env *Env, args []string) []string {
	if len(args) == 0 {
		return []string{env.Config.GetTestPath("")}
	}
	roots := make([]string, 0, len(args))
	for _, arg := range args {
		roots = append(roots, env.Config.GetTestPath(arg))
	}
	return roots
}

// pushRoots registers roots with the runner. Only the roots are stat-ed: a
// regular file becomes a job, anything else is handed to the scanner, which
// reports paths that cannot be read.
func pushRoots(runner *execution.TestRunner, roots []string) {
	for _, root := range roots {
		if fi, err := os.Stat(root); err == nil && fi.Mode().IsRegular() {
			runner.PushTest(root)
		} else {
			runner.PushDir(root)
		}
	}
}
