package diff

import (
	"html/template"
	"strings"

	"notesync-web/internal/domain"
)

const DefaultPlaceholder = "No history"

type RenderOptions struct {
	ChangedOnly bool
	// Header is shown above the first line and never numbered. Usually the
	// note path.
	Header      string
	Placeholder string
}

func (o RenderOptions) placeholder() string {
	if o.Placeholder == "" {
		return DefaultPlaceholder
	}
	return o.Placeholder
}

func (o RenderOptions) filter(lines []domain.LineGroup) []domain.LineGroup {
	if o.ChangedOnly {
		return ChangedOnly(lines)
	}
	return lines
}

// RenderHTML renders numbered lines as markup. Inserted text is wrapped in
// <ins>, deleted text in <del>, and all note text is escaped.
func RenderHTML(lines []domain.LineGroup, opts RenderOptions) template.HTML {
	visible := opts.filter(lines)

	var b strings.Builder
	b.WriteString(`<div class="diff">`)
	b.WriteString(`<div class="diff-header">`)
	b.WriteString(template.HTMLEscapeString(opts.Header))
	b.WriteString(`</div>`)

	if len(visible) == 0 {
		b.WriteString(`<div class="diff-empty">`)
		b.WriteString(template.HTMLEscapeString(opts.placeholder()))
		b.WriteString(`</div></div>`)
		return template.HTML(b.String())
	}

	for _, line := range visible {
		b.WriteString(`<div class="`)
		b.WriteString(lineClass(line))
		b.WriteString(`"><span class="diff-num">`)
		b.WriteString(template.HTMLEscapeString(line.Number))
		b.WriteString(`</span><span class="diff-text">`)
		for _, seg := range line.Segments {
			writeSegment(&b, seg)
		}
		b.WriteString(`</span></div>`)
	}
	b.WriteString(`</div>`)

	return template.HTML(b.String())
}

func lineClass(line domain.LineGroup) string {
	switch {
	case line.AllOf(domain.DiffEqual):
		return "diff-line"
	case line.AllOf(domain.DiffDelete):
		return "diff-line diff-line-del"
	case line.AllOf(domain.DiffInsert):
		return "diff-line diff-line-ins"
	}
	return "diff-line diff-line-mod"
}

func writeSegment(b *strings.Builder, seg domain.DiffSegment) {
	text := template.HTMLEscapeString(seg.Text)
	switch seg.Type {
	case domain.DiffInsert:
		b.WriteString(`<ins class="diff-ins">`)
		b.WriteString(text)
		b.WriteString(`</ins>`)
	case domain.DiffDelete:
		b.WriteString(`<del class="diff-del">`)
		b.WriteString(text)
		b.WriteString(`</del>`)
	default:
		b.WriteString(text)
	}
}
