package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional btt.yaml in the project directory
type fileConfig struct {
	CasesPath         string   `yaml:"cases_path"`
	RecordsDir        string   `yaml:"records_dir"`
	IndexFile         string   `yaml:"index_file"`
	Workers           int      `yaml:"workers"`
	StepTimeout       string   `yaml:"step_timeout"`
	ContinueOnFailure *bool    `yaml:"continue_on_failure"`
	Headless          *bool    `yaml:"headless"`
	Archive           *bool    `yaml:"archive"`
	SkipDirs          []string `yaml:"skip_dirs"`
}

// applyFile overlays settings from the project config file when it
// exists. A missing file is not an error.
func (c *Config) applyFile() error {
	path := filepath.Join(c.ProjectPath, DefaultConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.CasesPath != "" {
		c.CasesPath = fc.CasesPath
	}
	if fc.RecordsDir != "" {
		c.RecordsDir = fc.RecordsDir
	}
	if fc.IndexFile != "" {
		c.IndexFile = fc.IndexFile
	}
	if fc.Workers > 0 {
		c.Workers = fc.Workers
	}
	if fc.StepTimeout != "" {
		d, err := time.ParseDuration(fc.StepTimeout)
		if err != nil {
			return fmt.Errorf("invalid step_timeout in %s: %w", path, err)
		}
		c.StepTimeout = d
	}
	if fc.ContinueOnFailure != nil {
		c.ContinueOnFailure = *fc.ContinueOnFailure
	}
	if fc.Headless != nil {
		c.Headless = *fc.Headless
	}
	if fc.Archive != nil {
		c.Archive = *fc.Archive
	}
	if len(fc.SkipDirs) > 0 {
		c.SkipDirs = append([]string(nil), fc.SkipDirs...)
	}

	return nil
}
