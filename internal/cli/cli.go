package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gemstar/pkg/buildinfo"
	"github.com/matzehuels/gemstar/pkg/cache"
	"github.com/matzehuels/gemstar/pkg/config"
	"github.com/matzehuels/gemstar/pkg/integrations"
	"github.com/matzehuels/gemstar/pkg/integrations/github"
	"github.com/matzehuels/gemstar/pkg/integrations/rubygems"
	"github.com/matzehuels/gemstar/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and cache key prefixes.
	appName = "gemstar"

	// redisPingTimeout bounds the reachability check of a shared cache.
	redisPingTimeout = 2 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	endpoints  endpoints
}

// endpoints overrides the remote hosts. Empty fields keep the public hosts.
type endpoints struct {
	registry string // RubyGems API root
	raw      string // raw file host
	web      string // GitHub web host
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Gemstar shows the changelogs of updated gems",
		Long:          `Gemstar compares two versions of a Gemfile.lock and collects the changelog entries of every gem that changed into a single HTML report.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultFile+" when present)")

	root.AddCommand(c.diffCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Service Factory
// =============================================================================

// services bundles the collaborators of one run.
type services struct {
	backend  cache.Cache
	registry *rubygems.Client
	locator  *github.Locator
	diag     *observability.Diagnostics
}

// newServices wires the cache, HTTP client, registry and changelog locator
// for cfg. The caller closes the returned backend.
func (c *CLI) newServices(ctx context.Context, cfg config.Config) *services {
	diag := observability.NewDiagnostics()
	backend := c.newCache(ctx, cfg)

	memo := cache.NewMemo(backend, diag)
	headers := map[string]string{"User-Agent": buildinfo.UserAgent()}
	client := integrations.NewClient(memo, cfg.Timeout.Duration, headers, diag)

	registry := rubygems.NewClient(client)
	if c.endpoints.registry != "" {
		registry.WithBaseURL(c.endpoints.registry)
	}
	locator := github.NewLocator(client).WithLogger(c.Logger)
	if c.endpoints.raw != "" && c.endpoints.web != "" {
		locator.WithBases(c.endpoints.raw, c.endpoints.web)
	}

	return &services{backend: backend, registry: registry, locator: locator, diag: diag}
}

// newCache picks the cache backend: none, a shared Redis server, or the
// file cache. An unreachable Redis server falls back to the file cache.
func (c *CLI) newCache(ctx context.Context, cfg config.Config) cache.Cache {
	if cfg.NoCache {
		return cache.NewNullCache()
	}
	if cfg.RedisURL != "" {
		rc, err := c.redisCache(ctx, cfg)
		if err == nil {
			return rc
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "err", err)
	}
	return cache.NewFileCache(cfg.CacheDir, cfg.CacheMaxAge.Duration)
}

func (c *CLI) redisCache(ctx context.Context, cfg config.Config) (*cache.RedisCache, error) {
	rc, err := cache.NewRedisCache(cfg.RedisURL, appName+":", cfg.CacheMaxAge.Duration)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		rc.Close()
		return nil, err
	}
	return rc, nil
}
