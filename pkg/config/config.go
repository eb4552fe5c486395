// Package config holds every option a gemstar run recognizes.
//
// Values come from three layers, later ones winning: built-in defaults, an
// optional TOML file (.gemstar.toml in the working directory, or an explicit
// path), and command-line flags applied by the caller. The GEMSTAR_FILTER
// environment variable replaces the default package filter.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	gserrors "github.com/matzehuels/gemstar/pkg/errors"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".gemstar.toml"

// FilterEnv names the environment variable overriding the package filter.
const FilterEnv = "GEMSTAR_FILTER"

// Duration is a time.Duration read from TOML strings such as "8s".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Config enumerates every option of a diff run.
type Config struct {
	Lockfile     string   `toml:"lockfile"`      // lockfile path
	From         string   `toml:"from"`          // old revision or date
	To           string   `toml:"to"`            // new revision or date; empty reads the working tree
	Output       string   `toml:"output"`        // HTML report path
	Workers      int      `toml:"workers"`       // concurrent package resolutions
	Timeout      Duration `toml:"timeout"`       // changelog and registry requests
	ProbeTimeout Duration `toml:"probe_timeout"` // compare-link existence probe
	CacheDir     string   `toml:"cache_dir"`     // file cache location
	CacheMaxAge  Duration `toml:"cache_max_age"` // entries older than this are refetched
	RedisURL     string   `toml:"redis_url"`     // shared cache backend; empty uses CacheDir
	NoCache      bool     `toml:"no_cache"`      // disable caching entirely
	Filter       string   `toml:"filter"`        // regexp of gem names to resolve
	Debug        bool     `toml:"debug"`         // debug logging
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Lockfile:     "Gemfile.lock",
		From:         "HEAD",
		Output:       "gem_update_changelog.html",
		Workers:      10,
		Timeout:      Duration{8 * time.Second},
		ProbeTimeout: Duration{4 * time.Second},
		CacheDir:     ".gem_changelog_cache",
		CacheMaxAge:  Duration{7 * 24 * time.Hour},
		Filter:       ".*",
	}
}

// Load returns the defaults overlaid with the environment and the TOML file
// at path. An empty path reads [DefaultFile] when it exists and skips the
// file layer otherwise.
func Load(path string) (Config, error) {
	cfg := Default()
	if f := os.Getenv(FilterEnv); f != "" {
		cfg.Filter = f
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, gserrors.Wrap(gserrors.ErrCodeInvalidConfig, err, "reading %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, gserrors.Wrap(gserrors.ErrCodeInvalidConfig, err, "parsing %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, gserrors.New(gserrors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate reports the first invalid option.
func (c Config) Validate() error {
	switch {
	case c.Workers < 1:
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "workers must be at least 1, got %d", c.Workers)
	case c.Timeout.Duration <= 0:
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "timeout must be positive")
	case c.ProbeTimeout.Duration <= 0:
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "probe_timeout must be positive")
	case c.CacheMaxAge.Duration <= 0:
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "cache_max_age must be positive")
	case c.Lockfile == "":
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "lockfile is required")
	case c.Output == "":
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "output is required")
	}
	if _, err := c.FilterRegexp(); err != nil {
		return err
	}
	return nil
}

// FilterRegexp compiles Filter. An empty filter matches everything.
func (c Config) FilterRegexp() (*regexp.Regexp, error) {
	pattern := c.Filter
	if pattern == "" {
		pattern = ".*"
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeInvalidConfig, err, "invalid filter %q", c.Filter)
	}
	return re, nil
}

// String renders the config as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		type plain Config
		return fmt.Sprintf("%+v", plain(c))
	}
	return b.String()
}
