// Package lockfile reads Bundler lockfiles into dependency snapshots and
// diffs two snapshots.
package lockfile

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Snapshot maps gem names to locked version strings.
type Snapshot map[string]string

// specPattern matches a resolved spec line: exactly four spaces of indent,
// then "name (version)". Dependency lines are indented six spaces and do
// not match.
var specPattern = regexp.MustCompile(`^ {4}(\S+) \(([^)]+)\)$`)

// specSections are the top-level lockfile sections that list resolved specs.
var specSections = map[string]bool{"GEM": true, "GIT": true, "PATH": true}

// Parse reads a lockfile. Platform suffixes stay in the version string,
// e.g. "1.15.4-x86_64-linux".
func Parse(r io.Reader) (Snapshot, error) {
	snap := make(Snapshot)
	inSpecs := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		// Section headers start in column zero.
		if line != "" && line[0] != ' ' {
			inSpecs = specSections[strings.TrimSpace(line)]
			continue
		}
		if !inSpecs {
			continue
		}
		if m := specPattern.FindStringSubmatch(line); m != nil {
			snap[m[1]] = m[2]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}

// ParseString parses lockfile content held in memory.
func ParseString(content string) (Snapshot, error) {
	return Parse(strings.NewReader(content))
}

// ParseFile parses the lockfile at path.
func ParseFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Names returns the snapshot's gem names in sorted order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Change is one gem whose locked version differs between two snapshots.
// Old is empty for gems added in the new snapshot.
type Change struct {
	Name string
	Old  string
	New  string
}

// Added reports whether the gem was absent from the old snapshot.
func (c Change) Added() bool { return c.Old == "" }

// Diff lists gems present in next whose version differs from prev, sorted by
// name. Gems removed in next are not reported.
func Diff(prev, next Snapshot) []Change {
	var changes []Change
	for _, name := range next.Names() {
		oldVersion, newVersion := prev[name], next[name]
		if oldVersion == newVersion {
			continue
		}
		changes = append(changes, Change{Name: name, Old: oldVersion, New: newVersion})
	}
	return changes
}
