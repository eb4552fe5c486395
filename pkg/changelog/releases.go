package changelog

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxLinkDistance bounds how many ancestors of a release body are searched
// for its tag link.
const maxLinkDistance = 6

// ParseReleases extracts one section per release from a GitHub releases
// listing. Release <section> elements are read first, taking the version
// from the hidden accessible heading when present. Pages without them fall
// back to pairing each markdown body with the nearest release-tag link.
// Unusable input yields an empty result.
func ParseReleases(page string) (sections *Sections) {
	sections = NewSections()
	defer func() {
		if recover() != nil {
			sections = NewSections()
		}
	}()

	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return sections
	}

	for _, sec := range findAll(doc, func(n *html.Node) bool { return n.DataAtom == atom.Section }) {
		heading := releaseHeading(sec)
		body := findFirst(sec, isMarkdownBody)
		if heading == nil || body == nil {
			continue
		}
		version, ok := ExtractVersion(textContent(heading))
		if !ok {
			continue
		}
		sections.Add(version, releaseLines(version, body))
	}
	if sections.Len() > 0 {
		return sections
	}

	for _, body := range findAll(doc, isMarkdownBody) {
		link := nearestTagLink(body)
		if link == nil {
			continue
		}
		version := linkVersion(link)
		if version == "" {
			continue
		}
		sections.Add(version, releaseLines(version, body))
	}
	return sections
}

// releaseHeading prefers the screen-reader heading GitHub renders with a
// plain version string over the styled visible title.
func releaseHeading(sec *html.Node) *html.Node {
	if h := findFirst(sec, func(n *html.Node) bool { return isHeading(n) && hasClass(n, "sr-only") }); h != nil {
		return h
	}
	return findFirst(sec, isHeading)
}

func releaseLines(version string, body *html.Node) []string {
	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return []string{"## " + version}
		}
	}
	lines := []string{"## " + version, ""}
	return append(lines, strings.Split(strings.TrimSpace(b.String()), "\n")...)
}

func nearestTagLink(n *html.Node) *html.Node {
	for cur, depth := n, 0; cur != nil && depth < maxLinkDistance; cur, depth = cur.Parent, depth+1 {
		for sib := cur.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if a := findFirst(sib, isTagLink); a != nil {
				return a
			}
		}
		for sib := cur.NextSibling; sib != nil; sib = sib.NextSibling {
			if a := findFirst(sib, isTagLink); a != nil {
				return a
			}
		}
	}
	return nil
}

// linkVersion reads the version from a tag link's text, falling back to the
// last segment of its target path.
func linkVersion(a *html.Node) string {
	if v, ok := ExtractVersion(textContent(a)); ok {
		return v
	}
	seg := path.Base(attr(a, "href"))
	if unescaped, err := url.PathUnescape(seg); err == nil {
		seg = unescaped
	}
	if v, ok := ExtractVersion(seg); ok {
		return v
	}
	if seg == "." || seg == "/" {
		return ""
	}
	return seg
}

func isHeading(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4:
		return true
	}
	return false
}

func isMarkdownBody(n *html.Node) bool {
	return n.Type == html.ElementNode && hasClass(n, "markdown-body")
}

func isTagLink(n *html.Node) bool {
	return n.DataAtom == atom.A && strings.Contains(attr(n, "href"), "/releases/tag/")
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// findFirst returns the first node in document order, n included, that
// satisfies match.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every element under n satisfying match, without
// descending into matches.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}
