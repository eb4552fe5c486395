package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gemstar/pkg/config"
	"github.com/matzehuels/gemstar/pkg/lockfile"
	"github.com/matzehuels/gemstar/pkg/pipeline"
	"github.com/matzehuels/gemstar/pkg/render"
)

// diffCommand creates the diff command, the main entry point of gemstar.
func (c *CLI) diffCommand() *cobra.Command {
	var flags runFlags
	var pick bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Write an HTML report of the changelogs of updated gems",
		Long: `Compare Gemfile.lock at --from with the working tree (or --to), look up
every gem whose version changed, and write the changelog entries between the
old and new version into an HTML report.`,
		Example: `  gemstar diff
  gemstar diff --from HEAD~5 --output updates.html
  gemstar diff --from 2024-05-01 --filter '^rails'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runDiff(cmd.Context(), cfg, pick)
		},
	}

	flags.registerSnapshotFlags(cmd)
	flags.registerRunFlags(cmd)
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the gems to resolve interactively")

	return cmd
}

// runDiff executes one report run. Gems that fail to resolve are reported
// but do not fail the command.
func (c *CLI) runDiff(ctx context.Context, cfg config.Config, pick bool) error {
	filter, err := cfg.FilterRegexp()
	if err != nil {
		return err
	}

	prev, next, err := c.loadSnapshots(cfg)
	if err != nil {
		return err
	}

	changes := selectChanges(lockfile.Diff(prev, next), filter)
	if len(changes) == 0 {
		printInfo("No gem updates between %s and %s", cfg.From, toLabel(cfg))
		return nil
	}
	if pick {
		names, err := pickChanges(changes)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			printInfo("No gems selected")
			return nil
		}
		filter = namesFilter(names)
	}

	svc := c.newServices(ctx, cfg)
	defer svc.backend.Close()

	opts := pipeline.Options{
		Workers:      cfg.Workers,
		Filter:       filter,
		ProbeTimeout: cfg.ProbeTimeout.Duration,
		Logger:       c.Logger,
	}

	var spinner *Spinner
	if c.Logger.GetLevel() > log.DebugLevel && isTerminal(os.Stderr) {
		opts.Logger = c.Logger.With()
		opts.Logger.SetLevel(log.WarnLevel)
		spinner = newSpinnerWithContext(ctx, os.Stderr, fmt.Sprintf("Resolving %d gems", len(changes)))
		opts.OnProgress = func(_ string, done, total int) {
			spinner.SetMessage(fmt.Sprintf("Resolving gems %d/%d", done, total))
		}
		spinner.Start()
	}

	runner := pipeline.NewRunner(svc.registry, svc.locator, svc.diag)
	result, err := runner.Run(ctx, prev, next, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	report := render.Report{
		Project:     projectName(cfg.Lockfile),
		From:        cfg.From,
		To:          cfg.To,
		GeneratedAt: time.Now(),
		RunID:       svc.diag.RunID(),
		Updates:     result.Updates,
		Failures:    result.Failures,
	}
	if err := render.WriteFile(cfg.Output, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printSuccess("Wrote changelogs for %d gems", len(result.Updates))
	printFile(cfg.Output)
	fmt.Println(runSummary(result.Stats, result.Diagnostics))
	printFailures(result.Failures)
	return nil
}

// projectName names the report after the directory holding the lockfile.
func projectName(lockfilePath string) string {
	abs, err := filepath.Abs(lockfilePath)
	if err != nil {
		return "project"
	}
	return filepath.Base(filepath.Dir(abs))
}

func toLabel(cfg config.Config) string {
	if cfg.To == "" {
		return "the working tree"
	}
	return cfg.To
}
