package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/gemstar/pkg/cache"
	"github.com/matzehuels/gemstar/pkg/integrations"
)

// fakeHost serves fixed paths and counts every request.
type fakeHost struct {
	mu    sync.Mutex
	files map[string]string
	hits  map[string]int
}

func (f *fakeHost) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	body, ok := f.files[r.URL.Path]
	f.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte(body))
}

func (f *fakeHost) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeHost) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.hits {
		n += c
	}
	return n
}

func newTestLocator(t *testing.T, files map[string]string) (*Locator, *fakeHost, string) {
	t.Helper()
	host := &fakeHost{files: files, hits: make(map[string]int)}
	server := httptest.NewServer(host)
	t.Cleanup(server.Close)

	memo := cache.NewMemo(cache.NewFileCache(t.TempDir(), time.Hour), nil)
	client := integrations.NewClient(memo, time.Second, nil, nil).WithHTTPClient(server.Client())
	return NewLocator(client).WithBases(server.URL, server.URL), host, server.URL
}

func TestCandidatesProbedBranch(t *testing.T) {
	loc, _, base := newTestLocator(t, map[string]string{"/o/r/master/.gitignore": "*.gem\n"})

	got := loc.Candidates(context.Background(), "https://github.com/o/r", "r", "")
	if len(got) != len(ChangelogFiles) {
		t.Fatalf("got %d candidates, want %d", len(got), len(ChangelogFiles))
	}
	for i, file := range ChangelogFiles {
		if want := base + "/o/r/master/" + file; got[i] != want {
			t.Errorf("candidate %d = %s, want %s", i, got[i], want)
		}
	}
}

func TestCandidatesBothBranchesWhenProbeFails(t *testing.T) {
	loc, _, base := newTestLocator(t, nil)

	got := loc.Candidates(context.Background(), "https://github.com/o/r", "r", "")
	if len(got) != 2*len(ChangelogFiles) {
		t.Fatalf("got %d candidates, want %d", len(got), 2*len(ChangelogFiles))
	}
	want := []string{base + "/o/r/main/CHANGELOG.md", base + "/o/r/master/CHANGELOG.md", base + "/o/r/main/Changelog.md"}
	if !slices.Equal(got[:3], want) {
		t.Errorf("first candidates = %v, want %v", got[:3], want)
	}
}

func TestCandidatesKnownURLLast(t *testing.T) {
	loc, _, base := newTestLocator(t, map[string]string{"/o/r/main/.gitignore": "*.gem\n"})

	got := loc.Candidates(context.Background(), "https://github.com/o/r", "r", "https://github.com/o/r/blob/v2/docs/RELEASES.md")
	if last, want := got[len(got)-1], base+"/o/r/v2/docs/RELEASES.md"; last != want {
		t.Errorf("last candidate = %s, want %s", last, want)
	}

	dup := loc.Candidates(context.Background(), "https://github.com/o/r", "r", "https://github.com/o/r/blob/main/CHANGELOG.md")
	if len(dup) != len(ChangelogFiles) {
		t.Errorf("duplicate known URL not removed: %d candidates", len(dup))
	}
}

func TestCandidatesMonorepo(t *testing.T) {
	loc, host, base := newTestLocator(t, nil)
	ctx := context.Background()

	got := loc.Candidates(ctx, "https://github.com/aws/aws-sdk-ruby", "aws-sdk-s3", "")
	want := []string{base + "/aws/aws-sdk-ruby/refs/heads/version-3/gems/aws-sdk-s3/CHANGELOG.md"}
	if !slices.Equal(got, want) {
		t.Errorf("aws candidates = %v, want %v", got, want)
	}

	got = loc.Candidates(ctx, "https://github.com/rails/rails", "activesupport", "")
	want = []string{base + "/rails/rails/main/activesupport/CHANGELOG.md"}
	if !slices.Equal(got, want) {
		t.Errorf("rails candidates = %v, want %v", got, want)
	}
	if host.total() != 0 {
		t.Errorf("monorepo lookup made %d requests, want none", host.total())
	}

	if got := loc.Candidates(ctx, "https://github.com/rails/rails", "rails", ""); len(got) < len(ChangelogFiles) {
		t.Errorf("rails gem itself should use the normal search, got %v", got)
	}
}

func TestCandidatesNonGitHub(t *testing.T) {
	loc, _, _ := newTestLocator(t, nil)

	got := loc.Candidates(context.Background(), "", "x", "https://example.com/changes.txt")
	if !slices.Equal(got, []string{"https://example.com/changes.txt"}) {
		t.Errorf("Candidates() = %v", got)
	}
	if got := loc.Candidates(context.Background(), "", "x", "not a url"); len(got) != 0 {
		t.Errorf("Candidates() = %v, want none", got)
	}
}

func TestFetchChangelogFirstHitWins(t *testing.T) {
	loc, host, _ := newTestLocator(t, map[string]string{
		"/o/r/main/.gitignore": "*.gem\n",
		"/o/r/main/History.md": "## 1.0.0\n",
	})
	ctx := context.Background()

	doc, ok := loc.FetchChangelog(ctx, "https://github.com/o/r", "r", "")
	if !ok {
		t.Fatal("FetchChangelog() found nothing")
	}
	if !strings.HasSuffix(doc.URL, "/o/r/main/History.md") || doc.Text != "## 1.0.0\n" {
		t.Errorf("FetchChangelog() = %+v", doc)
	}
	if host.count("/o/r/main/CHANGELOG.rdoc") != 0 {
		t.Error("candidates after the first hit should not be requested")
	}
	if host.count("/o/r/master/.gitignore") != 0 {
		t.Error("master should not be probed once main passes")
	}

	before := host.total()
	if _, ok := loc.FetchChangelog(ctx, "https://github.com/o/r", "r", ""); !ok {
		t.Fatal("second FetchChangelog() found nothing")
	}
	if host.total() != before {
		t.Errorf("second lookup made %d requests, want 0", host.total()-before)
	}
}

func TestFetchChangelogNone(t *testing.T) {
	loc, _, _ := newTestLocator(t, nil)
	if _, ok := loc.FetchChangelog(context.Background(), "https://github.com/o/r", "r", ""); ok {
		t.Error("FetchChangelog() should report absent")
	}
}

func TestFetchReleases(t *testing.T) {
	loc, _, _ := newTestLocator(t, map[string]string{"/o/r/releases": "<html></html>"})

	doc, ok := loc.FetchReleases(context.Background(), "https://github.com/o/r")
	if !ok || doc.Text != "<html></html>" || !strings.HasSuffix(doc.URL, "/o/r/releases") {
		t.Errorf("FetchReleases() = (%+v, %v)", doc, ok)
	}
	if _, ok := loc.FetchReleases(context.Background(), ""); ok {
		t.Error("FetchReleases(\"\") should report absent")
	}
}
