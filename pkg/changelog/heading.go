package changelog

import (
	"regexp"
	"strings"
)

// Pattern fragments expanded into the heading expressions below.
const (
	markPart = `(?:#{1,6}|={1,6})`
	verPart  = `v?(\d+\.\d+(?:\.[0-9A-Za-z]+)*(?:-[0-9A-Za-z.]+)?)`
	datePart = `(\d{4}-\d{2}-\d{2})`
	// One or two words before the version, such as "Version" or "rails".
	labelPart = `[A-Za-z][\w.\-]*(?:\s+[A-Za-z][\w.\-]*)?`
	// What may follow a version token.
	endPart = `(?:[\s\](\-–—:,/]|$)`
)

var fragments = strings.NewReplacer("MARK", markPart, "VER", verPart, "DATE", datePart, "LABEL", labelPart, "END", endPart)

func compile(pattern string) *regexp.Regexp {
	return regexp.MustCompile(fragments.Replace(pattern))
}

var (
	datedHeadingRE    = compile(`^MARK\s*(?:\[?VER\]?)?[\s\-–—/(,:]*\(?DATE\)?\s*$`)
	labelledHeadingRE = compile(`^MARK\s*\[?LABEL\s+\[?VEREND`)
	bareHeadingRE     = compile(`^MARK\s*\[?VEREND`)
	dateParenRE       = compile(`^MARK\s*DATE\s*\(\s*VER\s*\)`)
	looseHeadingRE    = compile(`^VER\s*(?:\([^)]*\))?\s*$`)

	rdocMarkRE = regexp.MustCompile(`^(=+)`)
	isoDateRE  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	extractDateParenRE = compile(`DATE\s*\(\s*VER\s*\)`)
	extractLeadingRE   = compile(`^\s*(?:MARK\s*)?(?:[Vv]ersion\s*)?\[?VER`)
	extractAnywhereRE  = compile(`(?:^|[^0-9A-Za-z.])VER`)
)

// matcher reports the section key a heading line opens.
type matcher func(line string) (key string, ok bool)

// headingMatchers are tried in order; the first match wins.
var headingMatchers = []matcher{
	matchDatedHeading,
	matchLabelledHeading,
	matchBareHeading,
	matchDateParenHeading,
	matchLooseHeading,
}

// matchDatedHeading accepts "## 1.2.0 - 2024-01-01" and "## 2024-01-01".
// The version wins over the date when both are present.
func matchDatedHeading(line string) (string, bool) {
	m := datedHeadingRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

// matchLabelledHeading accepts "## Version 1.2.0", "## [Version 1.2.0]" or
// "## Release v1.2.0 - Codename". The label is at most two words.
func matchLabelledHeading(line string) (string, bool) {
	return submatch(labelledHeadingRE, line)
}

func matchBareHeading(line string) (string, bool) {
	return submatch(bareHeadingRE, line)
}

// matchDateParenHeading accepts "### 2025-11-07 (2.16.0)".
func matchDateParenHeading(line string) (string, bool) {
	m := dateParenRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[2], true
}

// matchLooseHeading accepts unmarked lines such as "1.4.0 (2025-06-02)".
// The version must start the line, so indented code is not a heading.
func matchLooseHeading(line string) (string, bool) {
	return submatch(looseHeadingRE, line)
}

func submatch(re *regexp.Regexp, line string) (string, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchHeading reports whether line opens a section and under which key.
func MatchHeading(line string) (string, bool) {
	for _, match := range headingMatchers {
		if key, ok := match(line); ok {
			return key, true
		}
	}
	return "", false
}

// ExtractVersion picks the version out of a heading line holding several
// numeric tokens. A version in parentheses after a date is preferred, then a
// version right after the marker and an optional "Version" label, then the
// first dotted number anywhere.
func ExtractVersion(line string) (string, bool) {
	if m := extractDateParenRE.FindStringSubmatch(line); m != nil {
		return m[2], true
	}
	if m := extractLeadingRE.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := extractAnywhereRE.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// normalizeMarker rewrites a leading RDoc "=" run to the same number of "#".
func normalizeMarker(line string) string {
	m := rdocMarkRE.FindString(line)
	if m == "" {
		return line
	}
	return strings.Repeat("#", len(m)) + line[len(m):]
}

// looksLikeVersion reports whether key reads as a dotted version rather than
// a date or label.
func looksLikeVersion(key string) bool {
	if isoDateRE.MatchString(key) {
		return false
	}
	_, ok := submatch(looseHeadingRE, key)
	return ok
}
