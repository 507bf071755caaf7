package cli

import "ftr/internal/config"

// Flags holds command-line flags
type Flags struct {
	ConfigFile  string
	LogLevel    string
	Workers     int
	Sequential  bool
	Verbose     bool
	Extension   string
	NameFilter  string
	Command     string
	Progress    bool
	MetricsFile string
	StoreDriver string
	StoreDSN    string

	// list
	TestCommands bool

	// failures
	Stats bool

	// history
	Limit int
	RunID string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:  f.ConfigFile,
		Workers:     f.Workers,
		Sequential:  f.Sequential,
		Verbose:     f.Verbose,
		Extension:   f.Extension,
		NameFilter:  f.NameFilter,
		Command:     f.Command,
		Progress:    f.Progress,
		MetricsFile: f.MetricsFile,
		StoreDriver: f.StoreDriver,
		StoreDSN:    f.StoreDSN,
		LogLevel:    f.LogLevel,
	}
}
