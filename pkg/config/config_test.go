package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gserrors "github.com/matzehuels/gemstar/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gemstar.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Lockfile != "Gemfile.lock" || cfg.From != "HEAD" || cfg.To != "" {
		t.Errorf("unexpected snapshot defaults: %+v", cfg)
	}
	if cfg.Workers != 10 {
		t.Errorf("Workers = %d, want 10", cfg.Workers)
	}
	if cfg.CacheMaxAge.Duration != 7*24*time.Hour {
		t.Errorf("CacheMaxAge = %v, want one week", cfg.CacheMaxAge)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
lockfile = "apps/web/Gemfile.lock"
workers = 4
timeout = "3s"
redis_url = "redis://localhost:6379/0"
filter = "^rails"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Lockfile != "apps/web/Gemfile.lock" || cfg.Workers != 4 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Timeout.Duration != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.Timeout)
	}
	if cfg.ProbeTimeout.Duration != 4*time.Second {
		t.Errorf("unset keys should keep defaults, ProbeTimeout = %v", cfg.ProbeTimeout)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" || cfg.Filter != "^rails" {
		t.Errorf("unexpected values: %+v", cfg)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without %s error = %v", DefaultFile, err)
	}
	if cfg.Workers != 10 {
		t.Errorf("Workers = %d, want default", cfg.Workers)
	}
}

func TestLoadDefaultFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte("workers = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"missing explicit": filepath.Join(t.TempDir(), "nope.toml"),
		"bad syntax":       writeConfig(t, "workers = = 3"),
		"bad duration":     writeConfig(t, `timeout = "soon"`),
		"unknown key":      writeConfig(t, "wokers = 3"),
	}
	for name, path := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(path)
			if !gserrors.Is(err, gserrors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadFilterEnv(t *testing.T) {
	t.Setenv(FilterEnv, "^aws-")
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Filter != "^aws-" {
		t.Errorf("Filter = %q, want env value", cfg.Filter)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero timeout", func(c *Config) { c.Timeout.Duration = 0 }},
		{"negative probe timeout", func(c *Config) { c.ProbeTimeout.Duration = -time.Second }},
		{"zero max age", func(c *Config) { c.CacheMaxAge.Duration = 0 }},
		{"empty lockfile", func(c *Config) { c.Lockfile = "" }},
		{"empty output", func(c *Config) { c.Output = "" }},
		{"bad filter", func(c *Config) { c.Filter = "([" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); !gserrors.Is(err, gserrors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestFilterRegexp(t *testing.T) {
	cfg := Default()
	cfg.Filter = ""
	re, err := cfg.FilterRegexp()
	if err != nil || !re.MatchString("anything") {
		t.Errorf("empty filter should match everything, err = %v", err)
	}
}

func TestString(t *testing.T) {
	s := Default().String()
	if !strings.Contains(s, `lockfile = "Gemfile.lock"`) || !strings.Contains(s, `timeout = "8s"`) {
		t.Errorf("String() = %s", s)
	}
}
