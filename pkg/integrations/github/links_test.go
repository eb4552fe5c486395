package github

import (
	"context"
	"slices"
	"testing"
	"time"
)

func TestCompareURL(t *testing.T) {
	loc, host, base := newTestLocator(t, map[string]string{"/o/r/compare/v1.0.0...v1.1.0": "diff"})
	ctx := context.Background()

	if got, want := loc.CompareURL(ctx, "https://github.com/o/r", "1.0.0", "1.1.0", time.Second), base+"/o/r/compare/v1.0.0...v1.1.0"; got != want {
		t.Errorf("CompareURL() = %s, want %s", got, want)
	}
	if got, want := loc.CompareURL(ctx, "https://github.com/o/r", "2.0.0", "2.1.0", time.Second), base+"/o/r/compare/2.0.0...2.1.0"; got != want {
		t.Errorf("CompareURL() = %s, want %s", got, want)
	}
	if host.count("/o/r/compare/2.0.0...2.1.0") != 0 {
		t.Error("unprefixed form should not be probed")
	}

	loc.CompareURL(ctx, "https://github.com/o/r", "1.0.0", "1.1.0", time.Second)
	if n := host.count("/o/r/compare/v1.0.0...v1.1.0"); n != 1 {
		t.Errorf("prefixed form probed %d times, want 1", n)
	}

	if got := loc.CompareURL(ctx, "https://github.com/o/r", "", "1.0.0", time.Second); got != "" {
		t.Errorf("CompareURL() for an added gem = %q, want empty", got)
	}
	if got := loc.CompareURL(ctx, "", "1.0.0", "1.1.0", time.Second); got != "" {
		t.Errorf("CompareURL() without repo = %q, want empty", got)
	}
}

func TestReleaseLinks(t *testing.T) {
	loc := NewLocator(nil)

	if got := loc.ReleasesURL("https://github.com/o/r"); got != "https://github.com/o/r/releases" {
		t.Errorf("ReleasesURL() = %s", got)
	}
	if got := loc.TagURL("https://github.com/o/r", "1.2.0"); got != "https://github.com/o/r/releases/tag/1.2.0" {
		t.Errorf("TagURL() = %s", got)
	}
	if got := loc.TagURL("https://gitlab.com/o/r", "1.2.0"); got != "" {
		t.Errorf("TagURL() for non-GitHub repo = %s", got)
	}

	got := loc.TagURLs("https://github.com/o/r", []string{"1.0.1", "1.0.2"})
	want := []string{"https://github.com/o/r/releases/tag/1.0.1", "https://github.com/o/r/releases/tag/1.0.2"}
	if !slices.Equal(got, want) {
		t.Errorf("TagURLs() = %v, want %v", got, want)
	}
}
