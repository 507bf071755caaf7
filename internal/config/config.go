package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `yaml:"project_path"`
	TestPath    string `yaml:"test_path"`
	Extension   string `yaml:"extension"`
	NameFilter  string `yaml:"filter"`

	// Execution settings
	Workers    int           `yaml:"workers"`
	Sequential bool          `yaml:"sequential"`
	Verbose    bool          `yaml:"verbose"`
	Command    []string      `yaml:"command"`
	Heartbeat  time.Duration `yaml:"heartbeat"`
	SlowTicks  int           `yaml:"slow_ticks"`
	PanicTicks int           `yaml:"panic_ticks"`

	// Output settings
	OutputJSONDir  string      `yaml:"output_dir"`
	OutputJSONFile string      `yaml:"output_file"`
	Store          StoreConfig `yaml:"store"`
	MetricsFile    string      `yaml:"metrics_file"`
	Progress       bool        `yaml:"progress"`
	LogLevel       string      `yaml:"log_level"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// StoreConfig selects where run history is recorded
type StoreConfig struct {
	Driver string `yaml:"driver"` // "", "sqlite" or "mysql"
	DSN    string `yaml:"dsn"`
}

// Flags holds command-line flags
type Flags struct {
	ConfigFile  string
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
	LogLevel    string
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		Extension:      DefaultExtension,
		Workers:        DefaultWorkers(),
		Heartbeat:      DefaultHeartbeat,
		SlowTicks:      DefaultSlowTicks,
		PanicTicks:     DefaultPanicTicks,
		OutputJSONDir:  DefaultOutputJSONDir,
		OutputJSONFile: DefaultOutputJSONFile,
		LogLevel:       DefaultLogLevel,
	}
}

// Load builds the configuration: defaults, then the YAML file, then .env and
// FTR_* environment variables, then command-line flags.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if err := cfg.LoadFile(flags.ConfigFile); err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges a YAML config file into c. With an empty path the default
// file in the project directory is used if it exists.
func (c *Config) LoadFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(c.ProjectPath, DefaultConfigFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads the project's .env file, if any, and applies FTR_* variables.
// Variables already set in the environment win over the .env file.
func (c *Config) LoadEnv() error {
	envPath := filepath.Join(c.ProjectPath, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envPath, err)
	}

	if v := os.Getenv("FTR_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FTR_WORKERS: %w", err)
		}
		c.Workers = n
	}
	for name, dst := range map[string]*bool{
		"FTR_SEQUENTIAL": &c.Sequential,
		"FTR_VERBOSE":    &c.Verbose,
		"FTR_PROGRESS":   &c.Progress,
	} {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = b
		}
	}
	for name, dst := range map[string]*string{
		"FTR_EXTENSION":    &c.Extension,
		"FTR_FILTER":       &c.NameFilter,
		"FTR_METRICS_FILE": &c.MetricsFile,
		"FTR_STORE_DRIVER": &c.Store.Driver,
		"FTR_STORE_DSN":    &c.Store.DSN,
		"FTR_LOG_LEVEL":    &c.LogLevel,
	} {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("FTR_COMMAND"); v != "" {
		c.Command = strings.Fields(v)
	}
	return nil
}

// ApplyFlags overrides settings with the flags that were given.
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Sequential {
		c.Sequential = true
	}
	if flags.Verbose {
		c.Verbose = true
	}
	if flags.Progress {
		c.Progress = true
	}
	if flags.Extension != "" {
		c.Extension = strings.TrimPrefix(flags.Extension, ".")
	}
	if flags.NameFilter != "" {
		c.NameFilter = flags.NameFilter
	}
	if flags.Command != "" {
		c.Command = strings.Fields(flags.Command)
	}
	if flags.MetricsFile != "" {
		c.MetricsFile = flags.MetricsFile
	}
	if flags.StoreDriver != "" {
		c.Store.Driver = flags.StoreDriver
	}
	if flags.StoreDSN != "" {
		c.Store.DSN = flags.StoreDSN
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}

// Validate checks the configuration and fills in derived values.
func (c *Config) Validate() error {
	c.Extension = strings.TrimPrefix(c.Extension, ".")
	if c.Extension == "" {
		return errors.New("test file extension must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Heartbeat <= 0 {
		return fmt.Errorf("heartbeat must be positive, got %s", c.Heartbeat)
	}
	if c.SlowTicks < 1 || c.PanicTicks <= c.SlowTicks {
		return fmt.Errorf("need 0 < slow_ticks < panic_ticks, got %d and %d", c.SlowTicks, c.PanicTicks)
	}

	switch c.Store.Driver {
	case DriverNone:
	case DriverSQLite:
		if c.Store.DSN == "" {
			c.Store.DSN = filepath.Join(c.ProjectPath, c.OutputJSONDir, DefaultHistoryDB)
		}
	case DriverMySQL:
		dsn, err := mysql.ParseDSN(c.Store.DSN)
		if err != nil {
			return fmt.Errorf("invalid mysql dsn: %w", err)
		}
		dsn.ParseTime = true
		c.Store.DSN = dsn.FormatDSN()
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// GetTestPath resolves a root path given on the command line against the
// project path. With no path the default test directory is returned.
func (c *Config) GetTestPath(path string) string {
	if path == "" {
		path = c.TestPath
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectPath, path)
}

// GetOutputPath returns the full path to the output JSON file.
// Resolves to an absolute path so run and failures always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Concurrent reports whether tests run on the worker pool.
func (c *Config) Concurrent() bool {
	return !c.Sequential
}
