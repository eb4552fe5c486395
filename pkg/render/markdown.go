package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Markdown converts changelog lines to an HTML fragment.
func Markdown(lines []string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(strings.Join(lines, "\n")), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
