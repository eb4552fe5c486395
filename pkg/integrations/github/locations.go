package github

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gemstar/pkg/cache"
	"github.com/matzehuels/gemstar/pkg/integrations"
)

const (
	defaultRawBase = "https://raw.githubusercontent.com"
	defaultWebBase = "https://github.com"
)

// ChangelogFiles are the conventional changelog names tried in each
// repository, most common first.
var ChangelogFiles = []string{
	"CHANGELOG.md", "Changelog.md", "changelog.md", "ChangeLog.md",
	"CHANGES.md", "Changes.md", "changes.md",
	"HISTORY.md", "History.md", "history.md",
	"CHANGELOG.rdoc", "History.rdoc",
	"CHANGELOG.txt", "CHANGELOG",
	"NEWS.md",
}

// Branches are the default branch names probed, in order.
var Branches = []string{"main", "master"}

// probeFile is fetched to find out which default branch a repository uses.
const probeFile = ".gitignore"

// monorepo maps a gem hosted in a shared repository to its changelog path
// below the raw content root. ok is false when the convention does not
// apply to name.
type monorepo func(name string) (path string, ok bool)

var monorepos = map[string]monorepo{
	"aws/aws-sdk-ruby": func(name string) (string, bool) {
		return "aws/aws-sdk-ruby/refs/heads/version-3/gems/" + name + "/CHANGELOG.md", true
	},
	"rails/rails": func(name string) (string, bool) {
		if name == "rails" {
			return "", false
		}
		return "rails/rails/main/" + name + "/CHANGELOG.md", true
	},
}

// Document is fetched changelog or release page text with its source.
type Document struct {
	URL  string
	Text string
}

// Locator finds and fetches changelogs for gems hosted on GitHub.
type Locator struct {
	client  *integrations.Client
	rawBase string
	webBase string
	logger  *log.Logger
}

// NewLocator creates a Locator that fetches through client.
func NewLocator(client *integrations.Client) *Locator {
	return &Locator{
		client:  client,
		rawBase: defaultRawBase,
		webBase: defaultWebBase,
		logger:  log.New(io.Discard),
	}
}

// WithBases points the locator at alternative raw-content and web hosts.
func (l *Locator) WithBases(rawBase, webBase string) *Locator {
	l.rawBase = strings.TrimRight(rawBase, "/")
	l.webBase = strings.TrimRight(webBase, "/")
	return l
}

// WithLogger sets the logger used for per-candidate debug output.
func (l *Locator) WithLogger(logger *log.Logger) *Locator {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// Candidates returns the changelog URLs to try for gem name in repoURL,
// highest confidence first. Known monorepos short-circuit to a single
// path. Otherwise every changelog file name is combined with the branches
// that pass the probe. known, typically the registry's changelog_uri, is
// appended last.
func (l *Locator) Candidates(ctx context.Context, repoURL, name, known string) []string {
	var urls []string

	if owner, repo, err := ParseRepoURL(repoURL); err == nil {
		slug := owner + "/" + repo
		if convention, ok := monorepos[slug]; ok {
			if path, ok := convention(name); ok {
				urls = append(urls, l.rawBase+"/"+path)
			}
		}
		if len(urls) == 0 {
			base := l.rawBase + "/" + slug
			branches := l.MainBranches(ctx, base)
			for _, file := range ChangelogFiles {
				for _, branch := range branches {
					urls = append(urls, base+"/"+branch+"/"+file)
				}
			}
		}
	}

	if known = l.rawURL(known); known != "" {
		urls = append(urls, known)
	}
	return dedupe(urls)
}

// MainBranches reports which default branch base uses by fetching a file
// expected in every repository. The first branch that has it is returned
// alone; when none does, all branches are returned.
func (l *Locator) MainBranches(ctx context.Context, base string) []string {
	for _, branch := range Branches {
		url := base + "/" + branch + "/" + probeFile
		_, ok := l.client.Cached(ctx, cache.ProbeKey(base, branch), func(ctx context.Context) ([]byte, error) {
			return l.client.GetBytes(ctx, url)
		})
		if ok {
			return []string{branch}
		}
	}
	return append([]string(nil), Branches...)
}

// FetchChangelog tries each candidate in order and returns the first one
// that fetches. Later candidates are not requested.
func (l *Locator) FetchChangelog(ctx context.Context, repoURL, name, known string) (Document, bool) {
	for _, url := range l.Candidates(ctx, repoURL, name, known) {
		l.logger.Debugf("%s: trying %s", name, url)
		data, ok := l.client.Cached(ctx, cache.ChangelogKey(url), func(ctx context.Context) ([]byte, error) {
			return l.client.GetBytes(ctx, url)
		})
		if ok && len(data) > 0 {
			l.logger.Debugf("%s: found %s", name, url)
			return Document{URL: url, Text: string(data)}, true
		}
	}
	return Document{}, false
}

// FetchReleases fetches the release listing page of repoURL.
func (l *Locator) FetchReleases(ctx context.Context, repoURL string) (Document, bool) {
	url := l.ReleasesURL(repoURL)
	if url == "" {
		return Document{}, false
	}
	data, ok := l.client.Cached(ctx, cache.ReleasesKey(url), func(ctx context.Context) ([]byte, error) {
		return l.client.GetBytes(ctx, url)
	})
	if !ok {
		return Document{}, false
	}
	return Document{URL: url, Text: string(data)}, true
}

// rawURL turns a changelog link into something fetchable as text. GitHub
// blob links become raw-content links; other http(s) links are kept.
func (l *Locator) rawURL(link string) string {
	link = strings.TrimSpace(link)
	if !strings.HasPrefix(link, "https://") && !strings.HasPrefix(link, "http://") {
		return ""
	}
	for _, prefix := range []string{l.webBase + "/", defaultWebBase + "/"} {
		rest, found := strings.CutPrefix(link, prefix)
		if !found {
			continue
		}
		parts := strings.SplitN(rest, "/", 4)
		if len(parts) == 4 && parts[2] == "blob" {
			return l.rawBase + "/" + parts[0] + "/" + parts[1] + "/" + parts[3]
		}
	}
	return link
}

func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
