package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"ftr/internal/cli"
	"ftr/internal/cli/commands"
	"ftr/internal/config"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitCode(err)
	}
	return cli.ExitSuccess
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ftr",
		Short: "Concurrent file test runner",
		Long: `ftr scans directories for test case files and runs them on a pool of worker
threads. Results are reported in discovery order, hung tests are detected by a
heartbeat watchdog and unusually slow tests are flagged after the run.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cfg := config.New()
	var flags cli.Flags

	cmds := commands.NewCommands(cfg, os.Stdout)
	cmds.Register(rootCmd, &flags)
	return rootCmd
}
