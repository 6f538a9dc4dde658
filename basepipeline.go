package tabler

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// basePipeline implements the undecorated operations.
// It always calls other operations through t.Pipeline()
// so that decorations of those operations take effect.
type basePipeline struct{}

func (basePipeline) AddToSpec(t *Table, specs []*ColumnSpec) error {
	if t.columns == nil {
		t.columns = new(Columns)
	}
	return t.columns.Add(specs...)
}

func (basePipeline) Load(t *Table, rows []Row) {
	items := make([]Row, len(rows))
	copy(items, rows)
	t.data = Data{Items: items, TotalResults: len(items)}
}

func (basePipeline) FetchOptions(t *Table) FetchOptions {
	return FetchOptions{}
}

func (basePipeline) Fetch(ctx context.Context, t *Table, opts FetchOptions, done FetchDone) {
	if t.options.Fetch != nil {
		t.options.Fetch.Fetch(ctx, opts, done)
		return
	}
	done(t.data.Clone(), nil)
}

func (basePipeline) Paginate(ctx context.Context, t *Table, data *Data, opts FetchOptions, done FetchDone) {
	done(data, nil)
}

func (basePipeline) Render(ctx context.Context, t *Table) error {
	generation := t.beginRender()
	p := t.Pipeline()
	opts := p.FetchOptions(t)

	t.log.V(1).Info("render", "generation", generation)

	var (
		once   sync.Once
		result = make(chan error, 1)
	)
	complete := func(err error) {
		once.Do(func() {
			result <- t.endRender(generation, err)
		})
	}

	p.Fetch(ctx, t, opts, func(data *Data, err error) {
		if err != nil {
			complete(fmt.Errorf("fetch: %w", err))
			return
		}
		p.Paginate(ctx, t, data, opts, func(data *Data, err error) {
			if err != nil {
				complete(fmt.Errorf("paginate: %w", err))
				return
			}
			t.renderMtx.Lock()
			if !t.isCurrentRender(generation) {
				t.renderMtx.Unlock()
				complete(nil)
				return
			}
			t.rendering = generation
			err = t.Pipeline().RenderTable(ctx, t, data)
			t.renderMtx.Unlock()
			complete(err)
		})
	})

	select {
	case err := <-result:
		return err
	default:
		// completes asynchronously
		return nil
	}
}

func (basePipeline) RenderTable(ctx context.Context, t *Table, data *Data) error {
	if data == nil || data.Items == nil {
		return fmt.Errorf("render table: %w", ErrMissingFetchData)
	}
	if t.columns == nil {
		if err := t.addDefaultSpec(data.Items); err != nil {
			return err
		}
	}
	p := t.Pipeline()
	cols := t.columns.Visible()

	t.recording = t.recording[:0]
	head := p.RenderHead(t, data, cols)
	body := p.RenderBody(t, data, cols)
	foot := p.RenderFoot(t, data, cols)

	t.commit(data, cols, head, body, foot)
	return nil
}

func (basePipeline) RenderHead(t *Table, data *Data, cols []*ColumnSpec) template.HTML {
	hasHeader := false
	for _, col := range cols {
		if col.hasHeader() {
			hasHeader = true
			break
		}
	}
	if !hasHeader {
		return ""
	}
	p := t.Pipeline()
	cells := make([]string, len(cols))
	for i, col := range cols {
		title := Escape(col.HeaderTitle())
		if col.HeaderFormatter != nil {
			title = col.HeaderFormatter(t, col, title)
		}
		cells[i] = string(MakeTag("th", title, p.MakeHeaderAttrs(t, col)))
	}
	return p.RenderHeadTr(t) + template.HTML(strings.Join(cells, "\n")) + "</tr>" //#nosec G203
}

func (basePipeline) RenderBody(t *Table, data *Data, cols []*ColumnSpec) template.HTML {
	p := t.Pipeline()
	rows := make([]string, len(data.Items))
	for i, row := range data.Items {
		r := renderedRow{
			open:  p.RenderBodyTr(t, row, i),
			cells: make([]template.HTML, len(cols)),
		}
		for c, col := range cols {
			r.cells[c] = p.RenderCell(t, row, col, i)
		}
		t.recording = append(t.recording, r)
		rows[i] = string(r.markup())
	}
	return template.HTML(strings.Join(rows, "\n")) //#nosec G203
}

func (basePipeline) RenderFoot(t *Table, data *Data, cols []*ColumnSpec) template.HTML {
	return ""
}

func (basePipeline) RenderHeadTr(t *Table) template.HTML {
	return OpenTag("tr", Attrs{{Name: "class", Value: t.options.HeadRowClassName}})
}

func (basePipeline) RenderBodyTr(t *Table, row Row, index int) template.HTML {
	return OpenTag("tr", Attrs{{Name: "class", Value: t.options.BodyRowClassName}})
}

func (basePipeline) RenderFootTr(t *Table) template.HTML {
	return OpenTag("tr", Attrs{{Name: "class", Value: t.options.FootRowClassName}})
}

func (basePipeline) RenderCell(t *Table, row Row, col *ColumnSpec, index int) template.HTML {
	p := t.Pipeline()
	return MakeTag("td", p.FormatValue(t, row, col, index), p.MakeColumnAttrs(t, col))
}

func (basePipeline) FormatValue(t *Table, row Row, col *ColumnSpec, index int) template.HTML {
	value := row[col.Field]
	var text string
	if IsEmptyValue(value) {
		text = col.DefaultText
	} else {
		text = ValueText(value)
	}
	html := Escape(text)
	if col.Formatter != nil {
		html = col.Formatter(t, html, col, row, index)
	}
	return html
}

func (basePipeline) MakeColumnAttrs(t *Table, col *ColumnSpec) Attrs {
	return Attrs{
		{Name: "width", Value: col.Width},
		{Name: "class", Value: JoinClassNames(col.ClassName, t.options.CellClassName)},
	}
}

func (basePipeline) MakeHeaderAttrs(t *Table, col *ColumnSpec) Attrs {
	className := col.HeaderClassName
	if className == "" {
		className = col.ClassName
	}
	return Attrs{
		{Name: "width", Value: col.Width},
		{Name: "class", Value: JoinClassNames(className, t.options.HeaderCellClassName)},
	}
}
