package pager

import (
	"html/template"
	"strconv"
	"strings"

	tabler "github.com/domonda/go-tabler"
)

// Renderer renders the markup of a Pager.
// t and cols are nil when rendering standalone.
type Renderer interface {
	RenderPager(p *Pager, t *tabler.Table, data *tabler.Data, cols []*tabler.ColumnSpec) template.HTML
}

// RendererFunc implements Renderer with a function.
type RendererFunc func(p *Pager, t *tabler.Table, data *tabler.Data, cols []*tabler.ColumnSpec) template.HTML

func (f RendererFunc) RenderPager(p *Pager, t *tabler.Table, data *tabler.Data, cols []*tabler.ColumnSpec) template.HTML {
	return f(p, t, data, cols)
}

// Decorate replaces the Renderer of the pager with wrap(current)
// and returns the replaced Renderer for Restore.
func (p *Pager) Decorate(wrap func(next Renderer) Renderer) (replaced Renderer) {
	replaced = p.renderer
	p.renderer = wrap(replaced)
	return replaced
}

func (p *Pager) Restore(r Renderer) {
	p.renderer = r
}

// RenderStandalone renders the pager for data
// without surrounding table row.
// If data is nil, then Options.TotalResults is used.
func (p *Pager) RenderStandalone(data *tabler.Data) template.HTML {
	if data == nil {
		data = &tabler.Data{Items: []tabler.Row{}, TotalResults: p.options.TotalResults}
	}
	return p.renderer.RenderPager(p, nil, data, nil)
}

type baseRenderer struct{}

func (baseRenderer) RenderPager(p *Pager, t *tabler.Table, data *tabler.Data, cols []*tabler.ColumnSpec) template.HTML {
	state := p.State()
	if data != nil {
		state = p.setTotalResults(data.Total())
	}
	links := Window(state, p.options.HideWhenOnePage)
	if links == nil && p.options.HideWhenOnePage {
		return ""
	}

	var lines []string
	if t != nil {
		lines = append(lines,
			string(t.Pipeline().RenderFootTr(t)),
			`<td colspan="`+strconv.Itoa(len(cols))+`">`,
		)
	}
	lines = append(lines, `<ol class="`+template.HTMLEscapeString(tabler.JoinClassNames("pager", p.options.CSSClass))+`">`)
	for _, link := range links {
		attrs := tabler.Attrs{
			{Name: "data-page", Value: strconv.Itoa(link.Page)},
			{Name: "class", Value: link.ClassName()},
		}
		li := tabler.MakeTag("li", "<a href>"+tabler.Escape(link.Label)+"</a>", attrs)
		lines = append(lines, string(li))
	}
	lines = append(lines, "</ol>")
	if t != nil {
		lines = append(lines, "</td>", "</tr>")
	}
	return template.HTML(strings.Join(lines, "\n")) //#nosec G203 -- built from escaped parts
}
