package config

import (
	"runtime"
	"time"
)

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is scanned when no paths are given on the command line
	DefaultTestPath = "filetests"
	// DefaultConfigFile is looked up in the project path
	DefaultConfigFile = "ftr.yaml"
	// DefaultExtension marks test case files
	DefaultExtension = "cton"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".ftr"
	// DefaultHistoryDB is the SQLite history database, relative to the output directory
	DefaultHistoryDB = "history.db"
	// DefaultHeartbeat is the watchdog tick period
	DefaultHeartbeat = time.Second
	// DefaultSlowTicks heartbeats without progress before hanging tests are listed
	DefaultSlowTicks = 3
	// DefaultPanicTicks heartbeats without progress before the run is aborted
	DefaultPanicTicks = 10
	// DefaultLogLevel for diagnostics on stderr
	DefaultLogLevel = "warn"
)

// Store drivers
const (
	DriverNone   = ""
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DefaultWorkers is the number of workers used unless configured otherwise.
func DefaultWorkers() int {
	return runtime.NumCPU()
}
