package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformed is returned by [ParseStrict] for unreadable version strings.
var ErrMalformed = errors.New("malformed version")

var (
	suffixRE  = regexp.MustCompile(`-[\w-]+$`)
	partRE    = regexp.MustCompile(`^[0-9A-Za-z]+$`)
	tokenRE   = regexp.MustCompile(`[0-9]+|[A-Za-z]+`)
	leadingRE = regexp.MustCompile(`^[0-9]`)
)

// segment is one comparable token: a number or a prerelease word.
type segment struct {
	num  int
	word string
}

func (s segment) isWord() bool { return s.word != "" }

// Version is a parsed gem version. The zero value equals [Min].
type Version struct {
	segs []segment
	max  bool
}

var (
	// Min is the lowest version, 0.0.0. [Parse] returns it for malformed input.
	Min = Version{segs: []segment{{}, {}, {}}}

	// Max sorts above every parsed version. It stands in for an absent upper
	// bound.
	Max = Version{max: true}
)

// Parse reads s, returning [Min] when s is malformed.
func Parse(s string) Version {
	v, err := ParseStrict(s)
	if err != nil {
		return Min
	}
	return v
}

// ParseStrict reads s. An empty string parses as [Min].
func ParseStrict(s string) (Version, error) {
	clean := Normalize(s)
	if clean == "" {
		return Min, nil
	}
	if !leadingRE.MatchString(clean) {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	// "1.2.3-rc.1" keeps its dash after suffix stripping; RubyGems reads it
	// as a prerelease.
	clean = strings.ReplaceAll(clean, "-", ".pre.")

	var segs []segment
	for _, part := range strings.Split(clean, ".") {
		if !partRE.MatchString(part) {
			return Version{}, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		for _, tok := range tokenRE.FindAllString(part, -1) {
			if tok[0] >= '0' && tok[0] <= '9' {
				n, err := strconv.Atoi(tok)
				if err != nil {
					return Version{}, fmt.Errorf("%w: %q", ErrMalformed, s)
				}
				segs = append(segs, segment{num: n})
			} else {
				segs = append(segs, segment{word: tok})
			}
		}
	}
	return Version{segs: segs}, nil
}

// Normalize trims whitespace, a leading "v" and a trailing "-<identifier>"
// suffix from s.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")
	return suffixRE.ReplaceAllString(s, "")
}

// Compare returns -1, 0 or +1 as v sorts before, equal to or after o.
func (v Version) Compare(o Version) int {
	switch {
	case v.max && o.max:
		return 0
	case v.max:
		return 1
	case o.max:
		return -1
	}
	n := max(len(v.segs), len(o.segs))
	for i := 0; i < n; i++ {
		if c := compareSegment(v.at(i), o.at(i)); c != 0 {
			return c
		}
	}
	return 0
}

func (v Version) at(i int) segment {
	if i < len(v.segs) {
		return v.segs[i]
	}
	return segment{}
}

func compareSegment(a, b segment) int {
	switch {
	case a.isWord() && b.isWord():
		return strings.Compare(a.word, b.word)
	case a.isWord():
		return -1
	case b.isWord():
		return 1
	case a.num < b.num:
		return -1
	case a.num > b.num:
		return 1
	}
	return 0
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

// Equal reports whether v and o compare equal.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// IsMax reports whether v is the [Max] sentinel.
func (v Version) IsMax() bool { return v.max }

// String renders v in dotted form. Words are joined to the preceding
// segment with a dot, as RubyGems prints them.
func (v Version) String() string {
	if v.max {
		return "max"
	}
	if len(v.segs) == 0 {
		return Min.String()
	}
	parts := make([]string, len(v.segs))
	for i, s := range v.segs {
		if s.isWord() {
			parts[i] = s.word
		} else {
			parts[i] = strconv.Itoa(s.num)
		}
	}
	return strings.Join(parts, ".")
}

// release returns the first three numeric segments, zero padded. Parsing
// stops at the first prerelease word.
func (v Version) release() [3]int {
	var r [3]int
	for i, s := range v.segs {
		if i >= 3 || s.isWord() {
			break
		}
		r[i] = s.num
	}
	return r
}

// Compare parses a and b with [Parse] and compares them.
func Compare(a, b string) int { return Parse(a).Compare(Parse(b)) }
