package integrations

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/gemstar/pkg/cache"
)

// DefaultTimeout bounds a single changelog or registry request.
const DefaultTimeout = 8 * time.Second

var (
	// ErrNotFound is returned when a resource does not exist. It is the
	// cache's negative-result sentinel, so producers may return it as is.
	ErrNotFound = cache.ErrNotFound

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// unexpected statuses). Results carrying it are never cached.
	ErrNetwork = cache.ErrNetwork
)

// NewHTTPClient creates an HTTP client. Timeouts are applied per request by
// [Client] through the request context.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 2 * DefaultTimeout}
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"http://", "https://",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, git+ and plain http prefixes, and removes .git suffixes
// and trailing slashes. Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	s = strings.TrimRight(s, "/")
	return strings.TrimSuffix(s, ".git")
}

// PathEscape escapes s for use as a single URL path segment.
func PathEscape(s string) string { return url.PathEscape(s) }
