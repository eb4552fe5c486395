package changelog

import (
	"slices"
	"strings"
	"testing"
)

const releaseSectionsPage = `<!DOCTYPE html>
<html><body>
<section aria-labelledby="hd-1">
  <h2 class="sr-only" id="hd-1">v2.1.0</h2>
  <div class="Box">
    <h1 class="d-inline mr-3"><a href="/o/r/releases/tag/v2.1.0">Shiny release 9.9</a></h1>
    <div class="markdown-body my-3"><p>Added <strong>things</strong></p></div>
  </div>
</section>
<section aria-labelledby="hd-2">
  <h2 class="sr-only" id="hd-2">v2.0.0</h2>
  <div class="markdown-body"><ul><li>Breaking</li></ul></div>
</section>
<section aria-labelledby="hd-3">
  <h2 class="sr-only" id="hd-3">Nightly</h2>
  <div class="markdown-body"><p>no version</p></div>
</section>
</body></html>`

const releaseLinksPage = `<!DOCTYPE html>
<html><body>
<div class="release">
  <div class="header"><a href="/o/r/releases/tag/v1.5.0">v1.5.0</a></div>
  <div class="markdown-body"><p>Five</p></div>
</div>
<div class="release">
  <div class="header"><a href="/o/r/releases/tag/v1.4.2">Latest</a></div>
  <div class="markdown-body"><p>Four</p></div>
</div>
<div class="markdown-body"><p>orphan</p></div>
</body></html>`

func TestParseReleasesSections(t *testing.T) {
	sections := ParseReleases(releaseSectionsPage)

	if got, want := sections.Keys(), []string{"2.1.0", "2.0.0"}; !slices.Equal(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	lines := sections.Lines("2.1.0")
	if lines[0] != "## 2.1.0" {
		t.Errorf("first line = %q, want synthesized heading", lines[0])
	}
	if body := strings.Join(lines, "\n"); !strings.Contains(body, "<strong>things</strong>") {
		t.Errorf("release body not rendered: %q", body)
	}
}

func TestParseReleasesLinkFallback(t *testing.T) {
	sections := ParseReleases(releaseLinksPage)

	if got, want := sections.Keys(), []string{"1.5.0", "1.4.2"}; !slices.Equal(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if body := strings.Join(sections.Lines("1.4.2"), "\n"); !strings.Contains(body, "Four") {
		t.Errorf("1.4.2 body = %q", body)
	}
}

func TestParseReleasesMalformed(t *testing.T) {
	for _, page := range []string{"", "<<<>>>", "<html><body><p>unclosed", "plain text"} {
		if got := ParseReleases(page); got.Len() != 0 {
			t.Errorf("ParseReleases(%q) = %v, want empty", page, got.Keys())
		}
	}
}

func TestParseDispatchesReleasePages(t *testing.T) {
	sections := Parse(releaseSectionsPage, "https://github.com/o/r/releases")
	if sections.Len() != 2 {
		t.Errorf("Parse(releases page) has %d sections, want 2", sections.Len())
	}
}

func TestLinkVersion(t *testing.T) {
	tests := []struct {
		html string
		want string
	}{
		{`<a href="/o/r/releases/tag/v3.0.0">Release 3.0.0</a>`, "3.0.0"},
		{`<a href="/o/r/releases/tag/v3.0.1">Latest</a>`, "3.0.1"},
		{`<a href="/o/r/releases/tag/nightly">Latest</a>`, "nightly"},
	}
	for _, tt := range tests {
		sections := ParseReleases(`<html><body><div>` + tt.html + `</div><div class="markdown-body">x</div></body></html>`)
		if got := sections.Keys(); !slices.Equal(got, []string{tt.want}) {
			t.Errorf("link %s gave keys %v, want [%s]", tt.html, got, tt.want)
		}
	}
}
