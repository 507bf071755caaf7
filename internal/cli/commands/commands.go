package commands

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ftr/internal/cli"
	"ftr/internal/config"
	"ftr/internal/discovery"
	"ftr/internal/logging"
	"ftr/internal/storage"
	"ftr/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
	History  *HistoryCommand

	env *Env
}

// Env is shared by all commands. It is filled in once flags are parsed.
type Env struct {
	Config *config.Config
	Logger log.Logger
}

// NewCommands creates all commands with dependencies. Tables and lists are written to out.
func NewCommands(cfg *config.Config, out io.Writer) *Commands {
	env := &Env{Config: cfg, Logger: logging.Discard()}
	testCommandParser := discovery.NewParser()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg, testCommandParser, out)

	return &Commands{
		Run:      NewRunCommand(env, jsonStorage),
		List:     NewListCommand(env, formatter, jsonStorage),
		Failures: NewFailuresCommand(env, jsonStorage, formatter),
		History:  NewHistoryCommand(env, formatter),
		env:      env,
	}
}

// load applies the config file, environment and flags, then builds the logger.
func (c *Commands) load(flags *cli.Flags) error {
	loaded, err := config.Load(flags.ToConfigFlags())
	if err != nil {
		return err
	}
	*c.env.Config = *loaded

	logger, err := logging.New(os.Stderr, loaded.LogLevel, !color.NoColor)
	if err != nil {
		return err
	}
	c.env.Logger = logger
	return nil
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.load(flags)
	}
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to the config file (default ./"+config.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Diagnostic log level: trace, debug, info, warn, error, crit")

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run file tests in parallel",
		Long: `Scan the given directories for test files and run each one, in parallel by default.
Paths that are regular files are run directly, whatever their extension.
Results are reported in the order the tests were found.`,
		RunE: c.Run.Execute,
	}
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Print a line for passing tests too")
	runCmd.Flags().BoolVar(&flags.Sequential, "sequential", false, "Run tests one at a time on the main thread")
	runCmd.Flags().IntVarP(&flags.Workers, "workers", "j", 0, "Number of worker threads (default: number of CPUs)")
	runCmd.Flags().StringVarP(&flags.Extension, "extension", "e", "", "Test file extension (default "+config.DefaultExtension+")")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter scanned tests by name pattern (supports wildcards, e.g. '*simple*')")
	runCmd.Flags().StringVar(&flags.Command, "command", "", "Command run for each test file, with the path appended")
	runCmd.Flags().BoolVar(&flags.Progress, "progress", false, "Show a progress bar on stderr")
	runCmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics for the run to this file")
	runCmd.Flags().StringVar(&flags.StoreDriver, "store-driver", "", "Record run history with this driver: sqlite or mysql")
	runCmd.Flags().StringVar(&flags.StoreDSN, "store-dsn", "", "Data source name for the history store")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List discovered tests",
		Long:  "Scan and list all test files without executing them",
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.Extension, "extension", "e", "", "Test file extension (default "+config.DefaultExtension+")")
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g. '*simple*')")
	listCmd.Flags().BoolVarP(&flags.TestCommands, "test-commands", "c", false, "Show the test commands declared in each file")
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last test run in an interactive viewer",
		RunE:  c.Failures.Execute,
	}
	failuresCmd.Flags().BoolVar(&flags.Stats, "stats", false, "Print run statistics and a failure tree instead of opening the viewer")
	rootCmd.AddCommand(failuresCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs",
		Long:  "List runs recorded in the history store, or the jobs of one run",
		RunE:  c.History.Execute,
	}
	historyCmd.Flags().IntVarP(&flags.Limit, "limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().StringVar(&flags.RunID, "run", "", "Show the jobs of this run")
	historyCmd.Flags().StringVar(&flags.StoreDriver, "store-driver", "", "History store driver: sqlite or mysql")
	historyCmd.Flags().StringVar(&flags.StoreDSN, "store-dsn", "", "Data source name for the history store")
	rootCmd.AddCommand(historyCmd)

	c.List.flags = flags
	c.Failures.flags = flags
	c.History.flags = flags
}
