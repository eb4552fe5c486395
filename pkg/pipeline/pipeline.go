// Package pipeline resolves the changelogs of every gem that changed
// between two lockfile snapshots.
//
// # Architecture
//
// Each changed gem moves through Pending → Resolving → Resolved or Failed.
// Resolving runs, in order:
//
//  1. Metadata lookup (repository, homepage, description)
//  2. Changelog discovery and fetch (first candidate that exists wins)
//  3. Section parsing, with the GitHub release page as a fallback
//  4. Range filtering, newest version first
//  5. Link assembly (compare link, release tag links when no sections)
//
// Gems are resolved concurrently by a bounded worker pool. Each worker
// sends exactly one outcome over a buffered channel and a single drain step
// assembles the [Result], so no state is shared between workers besides the
// cache. A failure or panic in one gem is recorded in [Result.Failures] and
// never affects its siblings.
//
// # Usage
//
//	runner := pipeline.NewRunner(registry, locator, diag)
//	result, err := runner.Run(ctx, prev, next, pipeline.Options{Workers: 10, Logger: logger})
//	for _, u := range result.Updates {
//	    fmt.Println(u.Name, u.Old, "→", u.New, len(u.Sections))
//	}
package pipeline

import (
	"context"
	"io"
	"regexp"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gemstar/pkg/integrations/github"
	"github.com/matzehuels/gemstar/pkg/integrations/rubygems"
	"github.com/matzehuels/gemstar/pkg/observability"
	"github.com/matzehuels/gemstar/pkg/version"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWorkers is the worker pool width.
	DefaultWorkers = 10

	// DefaultProbeTimeout bounds the compare-link existence probe.
	DefaultProbeTimeout = github.DefaultProbeTimeout
)

// =============================================================================
// Collaborators
// =============================================================================

// MetadataSource resolves gem names to registry metadata.
// *rubygems.Client implements it.
type MetadataSource interface {
	Resolve(ctx context.Context, gem string) rubygems.Metadata
	PackagePage(gem string) string
}

// ChangelogSource finds changelog text and release links.
// *github.Locator implements it.
type ChangelogSource interface {
	FetchChangelog(ctx context.Context, repoURL, name, known string) (github.Document, bool)
	FetchReleases(ctx context.Context, repoURL string) (github.Document, bool)
	CompareURL(ctx context.Context, repoURL, oldVersion, newVersion string, timeout time.Duration) string
	ReleasesURL(repoURL string) string
	TagURL(repoURL, version string) string
	TagURLs(repoURL string, versions []string) []string
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the configuration of one pipeline run.
type Options struct {
	Workers      int            // worker pool width
	Filter       *regexp.Regexp // gems whose names do not match are skipped; nil matches all
	ProbeTimeout time.Duration  // compare-link probe timeout
	Logger       *log.Logger    // progress output; nil discards

	// OnProgress, when set, is called after each gem finishes with the
	// number of finished gems so far. Workers call it concurrently.
	OnProgress func(name string, done, total int)

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults applies defaults to unset fields.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = DefaultProbeTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) matches(name string) bool {
	return o.Filter == nil || o.Filter.MatchString(name)
}

// =============================================================================
// Results
// =============================================================================

// Update is the resolved record for one changed gem. Sections holds the
// changelog entries inside (Old, New], newest first. When it is empty the
// release link fields are filled instead; the two are never both set.
type Update struct {
	Name        string
	Old         string // empty for newly added gems
	New         string
	RepoURI     string // canonical GitHub repository, may be empty
	HomepageURL string // registry homepage, else source URL, else the registry page
	Description string

	Sections     []version.Entry
	ChangelogURL string // document the sections came from

	CompareURL  string   // old...new tag diff, empty for added gems
	ReleaseURL  string   // release page of the new version
	ReleasePage string   // release listing
	ReleaseURLs []string // release pages of the versions between Old and New
}

// HasSections reports whether changelog entries were found.
func (u Update) HasSections() bool { return len(u.Sections) > 0 }

// Added reports whether the gem is new in the updated snapshot.
func (u Update) Added() bool { return u.Old == "" }

// Failure records a gem that could not be resolved.
type Failure struct {
	Name    string
	Message string
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Updates are the resolved gems, ordered by name.
	Updates []Update

	// Failures are the gems that failed, ordered by name.
	Failures []Failure

	// Stats contains counts and timing.
	Stats Stats

	// Diagnostics holds cache and HTTP counters when the runner was given
	// a diagnostics accumulator.
	Diagnostics observability.Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Changed  int // gems whose version differs
	Filtered int // changed gems skipped by the name filter
	Resolved int
	Failed   int
	Duration time.Duration
}
