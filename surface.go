package tabler

import (
	"context"
	"html/template"
	"io"
	"strings"
)

// surface is the committed markup of the last render cycle.
type surface struct {
	head template.HTML
	body template.HTML
	foot template.HTML

	cols []*ColumnSpec
	rows []renderedRow
	// byte offsets of rows within body, start is -1
	// if the row markup could not be located
	spans []span
}

type span struct{ start, end int }

type renderedRow struct {
	open  template.HTML
	cells []template.HTML
}

func (r renderedRow) markup() template.HTML {
	var b strings.Builder
	b.WriteString(string(r.open))
	for _, cell := range r.cells {
		b.WriteByte('\n')
		b.WriteString(string(cell))
	}
	b.WriteString("\n</tr>")
	return template.HTML(b.String()) //#nosec G203
}

func (t *Table) commit(data *Data, cols []*ColumnSpec, head, body, foot template.HTML) {
	s := surface{
		head:  head,
		body:  body,
		foot:  foot,
		cols:  cols,
		rows:  make([]renderedRow, len(t.recording)),
		spans: make([]span, len(t.recording)),
	}
	copy(s.rows, t.recording)
	offset := 0
	for i, row := range s.rows {
		markup := string(row.markup())
		pos := strings.Index(string(body[offset:]), markup)
		if pos < 0 {
			s.spans[i] = span{start: -1}
			continue
		}
		s.spans[i] = span{start: offset + pos, end: offset + pos + len(markup)}
		offset = s.spans[i].end
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.rendering != t.generation {
		// superseded while rendering, endRender discards the cycle
		return
	}
	t.displayed = data
	t.surface = s
}

// patchRow replaces the markup of a rendered row.
// It returns false if the row is not part of the surface.
func (t *Table) patchRow(index int, row renderedRow) bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	s := &t.surface
	if index < 0 || index >= len(s.spans) || s.spans[index].start < 0 {
		return false
	}
	markup := string(row.markup())
	sp := s.spans[index]
	s.body = s.body[:sp.start] + template.HTML(markup) + s.body[sp.end:] //#nosec G203
	delta := len(markup) - (sp.end - sp.start)
	s.spans[index].end += delta
	for i := index + 1; i < len(s.spans); i++ {
		if s.spans[i].start >= 0 {
			s.spans[i].start += delta
			s.spans[i].end += delta
		}
	}
	s.rows[index] = row
	return true
}

// Head returns the committed markup of the thead section.
func (t *Table) Head() template.HTML {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.surface.head
}

// Body returns the committed markup of the tbody section.
func (t *Table) Body() template.HTML {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.surface.body
}

// Foot returns the committed markup of the tfoot section.
func (t *Table) Foot() template.HTML {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.surface.foot
}

// ClassName returns the class attribute of the table element
// including "loading" while a fetch is outstanding.
func (t *Table) ClassName() string {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.className()
}

func (t *Table) className() string {
	if t.loading {
		return JoinClassNames(t.options.ClassName, "loading")
	}
	return t.options.ClassName
}

func (t *Table) templateContext() TemplateContext {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return TemplateContext{
		ClassName: t.className(),
		Loading:   t.loading,
		Head:      t.surface.head,
		Body:      t.surface.body,
		Foot:      t.surface.foot,
	}
}

// WriteHTML writes the committed surface as HTML table element to w.
func (t *Table) WriteHTML(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmpl := t.options.Template
	if tmpl == nil {
		tmpl = TableTemplate
	}
	return tmpl.Execute(w, t.templateContext())
}

// HTML returns the committed surface as HTML table element.
func (t *Table) HTML() template.HTML {
	var b strings.Builder
	if err := t.WriteHTML(context.Background(), &b); err != nil {
		t.log.Error(err, "executing table template")
		return ""
	}
	return template.HTML(b.String()) //#nosec G203
}
