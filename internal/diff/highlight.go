package diff

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const highlightStyle = "github"

var contentFormatter = html.New(
	html.WithLineNumbers(true),
	html.WithClasses(false),
	html.TabWidth(4),
)

// HighlightContent renders a full snapshot with syntax colouring. The
// lexer is picked from the path and falls back to markdown, the sync
// API's dominant content type.
func HighlightContent(path, content string) (template.HTML, error) {
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Get("markdown")
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := contentFormatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("format %s: %w", path, err)
	}

	return template.HTML(buf.String()), nil
}
