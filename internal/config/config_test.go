package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_GetCasesPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default path",
			config: &Config{
				ProjectPath: ".",
				CasesPath:   "cases",
				Flags:       Flags{},
			},
			expected: "cases",
		},
		{
			name: "with cases path flag",
			config: &Config{
				ProjectPath: "/project",
				CasesPath:   "cases",
				Flags: Flags{
					CasesPath: "smoke",
				},
			},
			expected: "/project/smoke",
		},
		{
			name: "absolute cases path",
			config: &Config{
				ProjectPath: "/project",
				CasesPath:   "cases",
				Flags: Flags{
					CasesPath: "/absolute/path",
				},
			},
			expected: "/absolute/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetCasesPath()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.Workers != DefaultWorkers {
		t.Errorf("expected Workers %d, got %d", DefaultWorkers, cfg.Workers)
	}

	if !cfg.Headless {
		t.Error("expected headless by default")
	}

	if len(cfg.SkipDirs) != len(DefaultSkipDirs) {
		t.Errorf("expected %d skip dirs, got %d", len(DefaultSkipDirs), len(cfg.SkipDirs))
	}
}

func TestLoad_FlagOverrides(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(Flags{
		Workers:           5,
		StepTimeout:       30 * time.Second,
		ContinueOnFailure: true,
		Headful:           true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Workers != 5 {
		t.Errorf("expected 5 workers, got %d", cfg.Workers)
	}
	if cfg.StepTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.StepTimeout)
	}
	if !cfg.ContinueOnFailure {
		t.Error("expected continue-on-failure")
	}
	if cfg.Headless {
		t.Error("headful flag should disable headless")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	content := `cases_path: regression
workers: 3
step_timeout: 15s
continue_on_failure: true
headless: false
skip_dirs:
  - old
`
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := Load(Flags{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.CasesPath != "regression" {
			t.Errorf("expected regression, got %s", cfg.CasesPath)
		}
		if cfg.Workers != 3 {
			t.Errorf("expected 3 workers, got %d", cfg.Workers)
		}
		if cfg.StepTimeout != 15*time.Second {
			t.Errorf("expected 15s, got %v", cfg.StepTimeout)
		}
		if !cfg.ContinueOnFailure || cfg.Headless {
			t.Error("boolean settings should come from the file")
		}
		if len(cfg.SkipDirs) != 1 || cfg.SkipDirs[0] != "old" {
			t.Errorf("expected skip dirs from file, got %v", cfg.SkipDirs)
		}
	})

	t.Run("flags beat the file", func(t *testing.T) {
		cfg, err := Load(Flags{Workers: 8})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Workers != 8 {
			t.Errorf("expected 8 workers, got %d", cfg.Workers)
		}
	})
}

func TestLoad_BadConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("step_timeout: soon"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(Flags{}); err == nil {
		t.Error("expected error for an unparseable step_timeout")
	}
}

func TestConfig_GetWorkers(t *testing.T) {
	cfg := New()
	cfg.Workers = 0
	if got := cfg.GetWorkers(); got != 1 {
		t.Errorf("expected at least 1 worker, got %d", got)
	}
}

// chdirTemp moves the test into a fresh directory so project-level
// config files cannot leak between tests
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("chdir back: %v", err)
		}
	})
	return dir
}
