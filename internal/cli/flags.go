package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gemstar/pkg/config"
)

// runFlags are the command line overrides of config values. Only flags the
// user actually set replace file or default values.
type runFlags struct {
	lockfile string
	from     string
	to       string
	output   string
	filter   string
	workers  int
	noCache  bool
}

// registerSnapshotFlags adds the flags that select the two snapshots.
func (f *runFlags) registerSnapshotFlags(cmd *cobra.Command) {
	defaults := config.Default()
	cmd.Flags().StringVar(&f.lockfile, "lockfile", defaults.Lockfile, "path to Gemfile.lock")
	cmd.Flags().StringVar(&f.from, "from", defaults.From, "old revision or date (e.g. HEAD~3, v1.2, 2024-05-01)")
	cmd.Flags().StringVar(&f.to, "to", "", "new revision or date (default: working tree)")
	cmd.Flags().StringVar(&f.filter, "filter", defaults.Filter, "regexp of gem names to include")
}

// registerRunFlags adds the flags that control resolution and output.
func (f *runFlags) registerRunFlags(cmd *cobra.Command) {
	defaults := config.Default()
	cmd.Flags().StringVarP(&f.output, "output", "o", defaults.Output, "HTML report path")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", defaults.Workers, "concurrent gem resolutions")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the response cache")
}

// apply copies every changed flag into cfg.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("lockfile") {
		cfg.Lockfile = f.lockfile
	}
	if changed("from") {
		cfg.From = f.from
	}
	if changed("to") {
		cfg.To = f.to
	}
	if changed("filter") {
		cfg.Filter = f.filter
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("no-cache") {
		cfg.NoCache = f.noCache
	}
}

// loadConfig reads the config file and applies the command's flags.
func (c *CLI) loadConfig(cmd *cobra.Command, f *runFlags) (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	f.apply(cmd, &cfg)
	if cfg.Debug {
		c.SetLogLevel(LogDebug)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
