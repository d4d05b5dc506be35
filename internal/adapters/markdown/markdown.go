// Package markdown renders user-written markdown (program descriptions, broadcast
// bodies) to HTML.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// renderer escapes raw HTML in the input (WithUnsafe is not set).
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.Linkify),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// ToHTML converts markdown source to an HTML fragment.
func ToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Template renders src for use inside html/template. Render failures fall back to
// the escaped source.
func Template(src string) template.HTML {
	out, err := ToHTML(src)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(out)
}
