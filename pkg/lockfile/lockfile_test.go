package lockfile

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleLock = `GIT
  remote: https://github.com/rails/rails.git
  revision: abc123
  branch: main
  specs:
    rails (7.2.0.alpha)
      actionpack (= 7.2.0.alpha)

PATH
  remote: .
  specs:
    myapp (0.1.0)

GEM
  remote: https://rubygems.org/
  specs:
    actionpack (7.2.0.alpha)
      rack (~> 3.0)
    nokogiri (1.15.4-x86_64-linux)
      racc (~> 1.4)
    rack (3.0.8)
    racc (1.7.1)

PLATFORMS
  x86_64-linux

DEPENDENCIES
  nokogiri (>= 1.0)
  rails!

BUNDLED WITH
   2.4.10
`

func TestParse(t *testing.T) {
	snap, err := ParseString(sampleLock)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	want := Snapshot{
		"rails":      "7.2.0.alpha",
		"myapp":      "0.1.0",
		"actionpack": "7.2.0.alpha",
		"nokogiri":   "1.15.4-x86_64-linux",
		"rack":       "3.0.8",
		"racc":       "1.7.1",
	}
	if len(snap) != len(want) {
		t.Errorf("got %d specs, want %d: %v", len(snap), len(want), snap)
	}
	for name, v := range want {
		if snap[name] != v {
			t.Errorf("snap[%q] = %q, want %q", name, snap[name], v)
		}
	}
}

func TestParseSkipsOtherSections(t *testing.T) {
	snap, err := ParseString("DEPENDENCIES\n    fake (1.0.0)\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap) != 0 {
		t.Errorf("specs outside GEM/GIT/PATH should be ignored: %v", snap)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Gemfile.lock")
	if err := os.WriteFile(path, []byte(sampleLock), 0o644); err != nil {
		t.Fatal(err)
	}
	snap, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if snap["rack"] != "3.0.8" {
		t.Errorf("rack = %q", snap["rack"])
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.lock")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDiff(t *testing.T) {
	prev := Snapshot{"foo": "1.0.0", "bar": "2.0.0", "gone": "0.1.0"}
	next := Snapshot{"foo": "1.2.0", "bar": "2.0.0", "baz": "0.3.0"}

	changes := Diff(prev, next)
	want := []Change{
		{Name: "baz", Old: "", New: "0.3.0"},
		{Name: "foo", Old: "1.0.0", New: "1.2.0"},
	}
	if len(changes) != len(want) {
		t.Fatalf("Diff() = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %v, want %v", i, changes[i], want[i])
		}
	}
	if !changes[0].Added() || changes[1].Added() {
		t.Error("Added() mismatch")
	}
}

func TestDiffUnchanged(t *testing.T) {
	snap := Snapshot{"bar": "1.0.0"}
	if changes := Diff(snap, snap); len(changes) != 0 {
		t.Errorf("identical snapshots should produce no changes, got %v", changes)
	}
}
