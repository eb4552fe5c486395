package github

import (
	"context"
	"time"

	"github.com/matzehuels/gemstar/pkg/cache"
)

// DefaultProbeTimeout bounds the compare-link existence check.
const DefaultProbeTimeout = 4 * time.Second

// webRepo returns the web URL of the repository behind repoURL, or "" when
// repoURL is not a GitHub repository.
func (l *Locator) webRepo(repoURL string) string {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return ""
	}
	return l.webBase + "/" + owner + "/" + repo
}

// ReleasesURL returns the release listing page of repoURL.
func (l *Locator) ReleasesURL(repoURL string) string {
	if web := l.webRepo(repoURL); web != "" {
		return web + "/releases"
	}
	return ""
}

// TagURL returns the release page for tag version.
func (l *Locator) TagURL(repoURL, version string) string {
	if web := l.webRepo(repoURL); web != "" && version != "" {
		return web + "/releases/tag/" + version
	}
	return ""
}

// TagURLs returns one release page link per version.
func (l *Locator) TagURLs(repoURL string, versions []string) []string {
	var urls []string
	for _, v := range versions {
		if u := l.TagURL(repoURL, v); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// CompareURL links the diff between the old and new release tags. The
// "v"-prefixed tag form is probed once, bounded by timeout; if it does not
// load the unprefixed form is returned without a probe. An empty oldVersion
// yields "".
func (l *Locator) CompareURL(ctx context.Context, repoURL, oldVersion, newVersion string, timeout time.Duration) string {
	web := l.webRepo(repoURL)
	if web == "" || oldVersion == "" || newVersion == "" {
		return ""
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	prefixed := web + "/compare/v" + oldVersion + "...v" + newVersion
	raw := web + "/compare/" + oldVersion + "..." + newVersion

	_, ok := l.client.Cached(ctx, cache.CompareKey(prefixed), func(ctx context.Context) ([]byte, error) {
		if _, err := l.client.GetBytesTimeout(ctx, prefixed, timeout); err != nil {
			return nil, err
		}
		return []byte("ok"), nil
	})
	if ok {
		return prefixed
	}
	return raw
}
