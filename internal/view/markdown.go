package view

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in notes is not rendered; goldmark drops it unless WithUnsafe
// is set.
var mdRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

func Markdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
