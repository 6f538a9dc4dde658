// Package formatters provides tabler.FormatterFunc implementations
// that wrap cell values in trusted HTML markup.
package formatters

import (
	"bytes"
	"encoding/json"
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"

	tabler "github.com/domonda/go-tabler"
)

var (
	Pre tabler.FormatterFunc = func(t *tabler.Table, value template.HTML, col *tabler.ColumnSpec, row tabler.Row, index int) template.HTML {
		return "<pre>" + value + "</pre>"
	}

	Code tabler.FormatterFunc = func(t *tabler.Table, value template.HTML, col *tabler.ColumnSpec, row tabler.Row, index int) template.HTML {
		return "<code>" + value + "</code>"
	}

	// Anchor returns an HTML anchor element with the
	// escaped value as id and inner text.
	Anchor tabler.FormatterFunc = func(t *tabler.Table, value template.HTML, col *tabler.ColumnSpec, row tabler.Row, index int) template.HTML {
		return `<a id="` + value + `">` + value + `</a>`
	}
)

// Chain returns a formatter calling all formatters in order,
// passing the result of one as value to the next.
func Chain(formatters ...tabler.FormatterFunc) tabler.FormatterFunc {
	return func(t *tabler.Table, value template.HTML, col *tabler.ColumnSpec, row tabler.Row, index int) template.HTML {
		for _, f := range formatters {
			value = f(t, value, col, row, index)
		}
		return value
	}
}

// SpanClass formats the value within an HTML span element with class.
func SpanClass(class string) tabler.FormatterFunc {
	open := tabler.OpenTag("span", tabler.Attrs{{Name: "class", Value: class}})
	return func(t *tabler.Table, value template.HTML, col *tabler.ColumnSpec, row tabler.Row, index int) template.HTML {
		return open + value + "</span>"
	}
}

// JSON formats the JSON of a string, []byte or json.RawMessage value
// indented with indent within a pre element.
// Other values are marshalled as JSON.
// Values that are not valid JSON are rendered as escaped text.
func JSON(indent string) tabler.FormatterFunc {
	return func(t *tabler.Table, value template.HTML, col *tabler.ColumnSpec, row tabler.Row, index int) template.HTML {
		raw := row[col.Field]
		if tabler.IsEmptyValue(raw) {
			return value
		}
		var src []byte
		switch x := raw.(type) {
		case string:
			src = []byte(x)
		case []byte:
			src = x
		case json.RawMessage:
			src = x
		default:
			var err error
			src, err = json.Marshal(raw)
			if err != nil {
				return "<pre>" + value + "</pre>"
			}
		}
		var buf bytes.Buffer
		var err error
		if indent == "" {
			err = json.Compact(&buf, src)
		} else {
			err = json.Indent(&buf, src, "", indent)
		}
		if err != nil {
			return "<pre>" + value + "</pre>"
		}
		return "<pre>" + tabler.Escape(buf.String()) + "</pre>"
	}
}

// Markdown renders the text of the value as Markdown.
// Raw HTML within the Markdown is skipped.
func Markdown(t *tabler.Table, value template.HTML, col *tabler.ColumnSpec, row tabler.Row, index int) template.HTML {
	raw := row[col.Field]
	if tabler.IsEmptyValue(raw) {
		return value
	}
	return RenderMarkdown(tabler.ValueText(raw))
}

// RenderMarkdown renders Markdown text as HTML without raw HTML
// and with links opening in a new target.
func RenderMarkdown(text string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(text))
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.Safelink | html.HrefTargetBlank,
	})
	return template.HTML(strings.TrimSpace(string(markdown.Render(doc, renderer)))) //#nosec G203 -- raw HTML and unsafe links are skipped
}

// Truncate shortens the text of the value to width display cells
// including a trailing "...".
// The full text is kept in the title attribute of a span element.
func Truncate(width int) tabler.FormatterFunc {
	return func(t *tabler.Table, value template.HTML, col *tabler.ColumnSpec, row tabler.Row, index int) template.HTML {
		raw := row[col.Field]
		if tabler.IsEmptyValue(raw) {
			return value
		}
		text := tabler.ValueText(raw)
		if runewidth.StringWidth(text) <= width {
			return value
		}
		return tabler.MakeTag("span", tabler.Escape(runewidth.Truncate(text, width, "...")), tabler.Attrs{{Name: "title", Value: text}})
	}
}
