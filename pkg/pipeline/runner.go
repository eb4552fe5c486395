package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gemstar/pkg/changelog"
	"github.com/matzehuels/gemstar/pkg/errors"
	"github.com/matzehuels/gemstar/pkg/lockfile"
	"github.com/matzehuels/gemstar/pkg/observability"
	"github.com/matzehuels/gemstar/pkg/version"
)

// Runner resolves changed gems against a metadata source and a changelog
// source. It holds no per-run state, so one Runner may serve several runs.
type Runner struct {
	Metadata    MetadataSource
	Changelogs  ChangelogSource
	Diagnostics *observability.Diagnostics
}

// NewRunner creates a runner. diag may be nil, in which case pipeline events
// are not counted and [Result.Diagnostics] stays zero.
func NewRunner(metadata MetadataSource, changelogs ChangelogSource, diag *observability.Diagnostics) *Runner {
	return &Runner{
		Metadata:    metadata,
		Changelogs:  changelogs,
		Diagnostics: diag,
	}
}

// outcome is what a worker hands to the drain step. update is only
// meaningful when err is nil.
type outcome struct {
	update Update
	name   string
	err    error
}

// Run diffs prev against next and resolves every changed gem that passes
// the filter. Unchanged gems are never resolved or reported. Per-gem
// failures land in Result.Failures; Run itself only fails on invalid
// options or missing collaborators.
func (r *Runner) Run(ctx context.Context, prev, next lockfile.Snapshot, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if r.Metadata == nil || r.Changelogs == nil {
		return nil, errors.New(errors.ErrCodeInternal, "runner needs a metadata and a changelog source")
	}

	start := time.Now()
	result := &Result{}

	changes := lockfile.Diff(prev, next)
	result.Stats.Changed = len(changes)

	var selected []lockfile.Change
	for _, c := range changes {
		if !opts.matches(c.Name) {
			result.Stats.Filtered++
			continue
		}
		selected = append(selected, c)
	}
	opts.Logger.Info("resolving changelogs",
		"changed", len(changes),
		"selected", len(selected),
		"workers", opts.Workers)

	// =========================================================================
	// Fan out: one task per gem, bounded by the pool width
	// =========================================================================

	outcomes := make(chan outcome, len(selected))
	var finished atomic.Int32
	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for _, c := range selected {
		g.Go(func() error {
			outcomes <- r.resolveIsolated(ctx, c, &opts)
			if opts.OnProgress != nil {
				opts.OnProgress(c.Name, int(finished.Add(1)), len(selected))
			}
			return nil
		})
	}
	_ = g.Wait()
	close(outcomes)

	// =========================================================================
	// Drain: the only place results are assembled
	// =========================================================================

	for o := range outcomes {
		if o.err != nil {
			result.Failures = append(result.Failures, Failure{Name: o.name, Message: errors.UserMessage(o.err)})
			continue
		}
		result.Updates = append(result.Updates, o.update)
	}
	sort.Slice(result.Updates, func(i, j int) bool { return result.Updates[i].Name < result.Updates[j].Name })
	sort.Slice(result.Failures, func(i, j int) bool { return result.Failures[i].Name < result.Failures[j].Name })

	result.Stats.Resolved = len(result.Updates)
	result.Stats.Failed = len(result.Failures)
	result.Stats.Duration = time.Since(start)
	if r.Diagnostics != nil {
		result.Diagnostics = r.Diagnostics.Snapshot()
		opts.Logger.Debug("diagnostics",
			"run", result.Diagnostics.RunID,
			"cache_hits", result.Diagnostics.CacheHits,
			"cache_negative", result.Diagnostics.CacheNegatives,
			"cache_misses", result.Diagnostics.CacheMisses,
			"requests", result.Diagnostics.Requests,
			"http_errors", result.Diagnostics.HTTPErrors)
	}

	opts.Logger.Info("resolved changelogs",
		"resolved", result.Stats.Resolved,
		"failed", result.Stats.Failed,
		"duration", result.Stats.Duration.Round(time.Millisecond))
	return result, nil
}

// resolveIsolated resolves one gem and converts any error or panic into a
// failed outcome.
func (r *Runner) resolveIsolated(ctx context.Context, c lockfile.Change, opts *Options) (out outcome) {
	hooks := r.hooks()
	start := time.Now()
	out.name = c.Name

	from := c.Old
	if from == "" {
		from = "new"
	}
	opts.Logger.Infof("%s (%s → %s)", c.Name, from, c.New)
	hooks.OnPackageStart(ctx, c.Name)

	defer func() {
		if p := recover(); p != nil {
			out.err = errors.New(errors.ErrCodePackageFailed, "panic: %v", p)
		}
		if out.err != nil {
			opts.Logger.Warnf("%s failed: %v", c.Name, out.err)
		}
		hooks.OnPackageComplete(ctx, c.Name, time.Since(start), out.err)
	}()

	out.update, out.err = r.Resolve(ctx, c, opts.ProbeTimeout)
	return out
}

func (r *Runner) hooks() observability.PipelineHooks {
	if r.Diagnostics == nil {
		return observability.NoopPipelineHooks{}
	}
	return r.Diagnostics
}

// Resolve runs every resolving stage for one gem. Missing metadata, a
// missing changelog or an empty range are normal outcomes; only context
// cancellation is reported as an error.
func (r *Runner) Resolve(ctx context.Context, c lockfile.Change, probeTimeout time.Duration) (Update, error) {
	u := Update{Name: c.Name, Old: c.Old, New: c.New}

	if err := alive(ctx, "metadata"); err != nil {
		return u, err
	}
	meta := r.Metadata.Resolve(ctx, c.Name)
	u.RepoURI = meta.RepoURI
	u.Description = meta.Description
	u.HomepageURL = firstNonEmpty(meta.HomepageURI, meta.SourceURI, r.Metadata.PackagePage(c.Name))

	if err := alive(ctx, "changelog"); err != nil {
		return u, err
	}
	var sections *changelog.Sections
	var source string
	if doc, ok := r.Changelogs.FetchChangelog(ctx, meta.RepoURI, c.Name, meta.ChangelogURI); ok {
		sections, source = changelog.Parse(doc.Text, doc.URL), doc.URL
	}
	if sections.Len() == 0 {
		if err := alive(ctx, "releases"); err != nil {
			return u, err
		}
		if doc, ok := r.Changelogs.FetchReleases(ctx, meta.RepoURI); ok {
			sections, source = changelog.ParseReleases(doc.Text), doc.URL
		}
	}

	if entries := version.FilterAndOrder(sections.Map(), c.Old, c.New); len(entries) > 0 {
		u.Sections = entries
		u.ChangelogURL = source
	}

	if err := alive(ctx, "links"); err != nil {
		return u, err
	}
	u.CompareURL = r.Changelogs.CompareURL(ctx, meta.RepoURI, c.Old, c.New, probeTimeout)
	if !u.HasSections() {
		u.ReleaseURL = r.Changelogs.TagURL(meta.RepoURI, c.New)
		u.ReleasePage = r.Changelogs.ReleasesURL(meta.RepoURI)
		u.ReleaseURLs = r.Changelogs.TagURLs(meta.RepoURI, releaseSteps(c))
	}
	return u, nil
}

// releaseSteps lists the versions whose release pages stand in for missing
// changelog sections.
func releaseSteps(c lockfile.Change) []string {
	if c.Added() {
		return []string{c.New}
	}
	if steps := version.EnumerateSteps(c.Old, c.New); len(steps) > 0 {
		return steps
	}
	return []string{c.New}
}

func alive(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodePackageFailed, err, "stopped before %s", stage)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
