package changelog

import (
	"bufio"
	"strings"
)

// Parse extracts sections from a fetched changelog document. HTML documents
// that look like a GitHub releases listing go to [ParseReleases]; any other
// HTML yields no sections. Everything else is scanned as markdown, RDoc or
// plain text.
func Parse(text, sourceURL string) *Sections {
	if IsHTML(text) {
		if isReleasesPage(text, sourceURL) {
			return ParseReleases(text)
		}
		return NewSections()
	}
	return ParseText(text)
}

// IsHTML reports whether text is an HTML document rather than a text file.
func IsHTML(text string) bool {
	head := strings.ToLower(strings.TrimSpace(text))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<head>")
}

func isReleasesPage(text, sourceURL string) bool {
	if strings.Contains(sourceURL, "/releases") {
		return true
	}
	return strings.Contains(text, "/releases/tag/") && strings.Contains(text, "markdown-body")
}

// ParseText runs the line-oriented heading scan over text and re-keys
// date-keyed sections afterwards.
func ParseText(text string) *Sections {
	sections := NewSections()

	var (
		current string
		body    []string
		open    bool
	)
	flush := func() {
		if open && len(body) > 0 {
			sections.Add(current, body)
		}
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if key, ok := MatchHeading(line); ok {
			flush()
			current, open = key, true
			body = []string{normalizeMarker(line)}
			continue
		}
		if open {
			body = append(body, line)
		}
	}
	flush()

	return normalizeKeys(sections)
}

// normalizeKeys re-derives keys that do not read as versions from the first
// line of their section. Sections whose key cannot be improved keep it.
func normalizeKeys(in *Sections) *Sections {
	out := NewSections()
	for _, key := range in.Keys() {
		lines := in.Lines(key)
		if !looksLikeVersion(key) && len(lines) > 0 {
			if v, ok := ExtractVersion(lines[0]); ok {
				key = v
			}
		}
		out.Add(key, lines)
	}
	return out
}
