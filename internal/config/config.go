package config

import (
	"path/filepath"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	CasesPath   string

	// Output settings
	RecordsDir string
	IndexFile  string

	// Execution settings
	Workers           int
	StepTimeout       time.Duration
	ContinueOnFailure bool
	Headless          bool
	Archive           bool

	// Directories to ignore when scanning
	SkipDirs []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	CasesPath         string
	Workers           int
	NameFilter        string
	Priority          string
	StepTimeout       time.Duration
	ContinueOnFailure bool
	FailFast          bool
	DryRun            bool
	Headful           bool
	Archive           bool
	OnlyFailed        bool
	RerunFailures     bool
	Review            bool
	Steps             bool
	CaseID            string
	Limit             int
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath: DefaultProjectPath,
		CasesPath:   DefaultCasesPath,
		RecordsDir:  DefaultRecordsDir,
		IndexFile:   DefaultIndexFile,
		Workers:     DefaultWorkers,
		Headless:    true,
	}
	// Copy default skip dirs
	cfg.SkipDirs = make([]string, len(DefaultSkipDirs))
	copy(cfg.SkipDirs, DefaultSkipDirs)
	return cfg
}

// Load creates a config, applies the optional project config file, then
// the flags. Flags take the highest precedence.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if err := cfg.applyFile(); err != nil {
		return nil, err
	}
	cfg.Flags = flags

	// Apply flag overrides
	if flags.Workers > 0 {
		cfg.Workers = flags.Workers
	}
	if flags.StepTimeout > 0 {
		cfg.StepTimeout = flags.StepTimeout
	}
	if flags.ContinueOnFailure {
		cfg.ContinueOnFailure = true
	}
	if flags.Headful {
		cfg.Headless = false
	}
	if flags.Archive {
		cfg.Archive = true
	}

	return cfg, nil
}

// GetCasesPath returns the cases path, using the flag if provided
func (c *Config) GetCasesPath() string {
	if c.Flags.CasesPath != "" {
		// If CasesPath is provided, make it relative to the project path if it's not absolute
		if filepath.IsAbs(c.Flags.CasesPath) {
			return c.Flags.CasesPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.CasesPath)
	}

	// Default: combine project path and cases path
	return filepath.Join(c.ProjectPath, c.CasesPath)
}

// GetRecordsDir returns the directory case records are written to.
// Resolves to an absolute path so run and review always use the same
// location regardless of cwd.
func (c *Config) GetRecordsDir() string {
	p := filepath.Join(c.ProjectPath, c.RecordsDir)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetIndexPath returns the full path to the run index file
func (c *Config) GetIndexPath() string {
	p := filepath.Join(c.ProjectPath, c.RecordsDir, c.IndexFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetWorkers returns the worker count, never below one
func (c *Config) GetWorkers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}
