package version

import (
	"regexp"
	"slices"
	"strings"
)

var dateKeyRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Range is a half-open version interval (From, To].
type Range struct {
	From Version
	To   Version
}

// NewRange builds a range from two version strings. An empty or malformed
// from becomes [Min]; an empty or malformed to becomes [Max]. Bounds given
// in the wrong order are swapped so that From <= To always holds.
func NewRange(from, to string) Range {
	r := Range{From: Min, To: Max}
	if strings.TrimSpace(from) != "" {
		r.From = Parse(from)
	}
	if strings.TrimSpace(to) != "" {
		if v, err := ParseStrict(to); err == nil {
			r.To = v
		}
	}
	if r.To.Less(r.From) {
		r.From, r.To = r.To, r.From
	}
	return r
}

// Contains reports whether From < v <= To.
func (r Range) Contains(v Version) bool {
	return r.From.Less(v) && v.Compare(r.To) <= 0
}

// Entry is one changelog section selected by [FilterAndOrder].
type Entry struct {
	Version string
	Lines   []string
}

// FilterAndOrder keeps the sections whose keys parse as versions inside
// (from, to] and returns them newest first. Keys that do not parse, and
// bare ISO dates, are dropped. Keys that compare equal, such as "1.0" and
// "1.0.0", keep a stable order by key text.
func FilterAndOrder(sections map[string][]string, from, to string) []Entry {
	r := NewRange(from, to)

	type keyed struct {
		v Version
		e Entry
	}
	var kept []keyed
	for key, lines := range sections {
		v, err := ParseStrict(key)
		if err != nil || strings.TrimSpace(key) == "" || dateKeyRE.MatchString(key) {
			continue
		}
		if r.Contains(v) {
			kept = append(kept, keyed{v: v, e: Entry{Version: key, Lines: lines}})
		}
	}

	slices.SortFunc(kept, func(a, b keyed) int {
		if c := b.v.Compare(a.v); c != 0 {
			return c
		}
		return strings.Compare(a.e.Version, b.e.Version)
	})

	out := make([]Entry, len(kept))
	for i, k := range kept {
		out[i] = k.e
	}
	return out
}
