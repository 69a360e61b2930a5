package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

// newMarkdown returns the converter for sheet descriptions. Raw HTML in a
// cell is dropped, not passed through.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
	)
}

// Markdown converts a description cell to HTML. Plain text comes back as a
// single paragraph; conversion errors fall back to the escaped text.
func (r *Renderer) Markdown(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		r.logger.Debug("markdown conversion failed", zap.Error(err))
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
