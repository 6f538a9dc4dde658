package tabler

import (
	"context"
	"errors"
	"html/template"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Render(t *testing.T) {
	ctx := context.Background()
	tbl := MustNew(
		[]*ColumnSpec{
			{Field: "name", Name: "Name"},
			{Field: "age", Name: "Age", ClassName: "num"},
		},
		&Options{ClassName: "data"},
	)
	tbl.Load([]Row{{"name": "Bob", "age": 42}})
	require.NoError(t, tbl.Render(ctx))

	assert.Equal(t, `<tr><th>Name</th>`+"\n"+`<th class="num">Age</th></tr>`, string(tbl.Head()))
	assert.Equal(t, "<tr>\n<td>Bob</td>\n<td class=\"num\">42</td>\n</tr>", string(tbl.Body()))
	assert.Empty(t, tbl.Foot())
	assert.Equal(t, ""+
		`<table class="data">`+"\n"+
		`<thead><tr><th>Name</th>`+"\n"+`<th class="num">Age</th></tr></thead>`+"\n"+
		"<tbody><tr>\n<td>Bob</td>\n<td class=\"num\">42</td>\n</tr></tbody>\n"+
		`</table>`,
		string(tbl.HTML()),
	)
	assert.False(t, tbl.Loading())
}

func TestTable_FormatValue(t *testing.T) {
	tests := []struct {
		name  string
		col   *ColumnSpec
		value any
		want  template.HTML
	}{
		{name: "zero is not empty", col: &ColumnSpec{Field: "a", DefaultText: "n/a"}, value: 0, want: "0"},
		{name: "false is not empty", col: &ColumnSpec{Field: "a", DefaultText: "n/a"}, value: false, want: "false"},
		{name: "empty string", col: &ColumnSpec{Field: "a", DefaultText: "n/a"}, value: "", want: "n/a"},
		{name: "nil", col: &ColumnSpec{Field: "a", DefaultText: "n/a"}, value: nil, want: "n/a"},
		{name: "NaN", col: &ColumnSpec{Field: "a", DefaultText: "n/a"}, value: math.NaN(), want: "n/a"},
		{name: "empty without default text", col: &ColumnSpec{Field: "a"}, value: nil, want: ""},
		{name: "escaped", col: &ColumnSpec{Field: "a"}, value: "<b>&", want: "&lt;b&gt;&amp;"},
		{name: "escaped default text", col: &ColumnSpec{Field: "a", DefaultText: "<none>"}, value: "", want: "&lt;none&gt;"},
		{
			name: "formatter gets escaped value",
			col: &ColumnSpec{Field: "a", Formatter: func(t *Table, value template.HTML, col *ColumnSpec, row Row, index int) template.HTML {
				return "<i>" + value + "</i>"
			}},
			value: "<b>",
			want:  "<i>&lt;b&gt;</i>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := MustNew([]*ColumnSpec{tt.col}, nil)
			got := tbl.FormatValue(Row{"a": tt.value}, tt.col, 0)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTable_FormatterArguments(t *testing.T) {
	var (
		gotTable *Table
		gotRow   Row
		gotIndex []int
	)
	col := &ColumnSpec{Field: "a", Formatter: func(t *Table, value template.HTML, col *ColumnSpec, row Row, index int) template.HTML {
		gotTable = t
		gotRow = row
		gotIndex = append(gotIndex, index)
		return value
	}}
	tbl := MustNew([]*ColumnSpec{col}, nil)
	rows := []Row{{"a": 1}, {"a": 2}}
	tbl.Load(rows)
	require.NoError(t, tbl.Render(context.Background()))

	assert.Same(t, tbl, gotTable)
	assert.Equal(t, rows[1], gotRow)
	assert.Equal(t, []int{0, 1}, gotIndex)
}

func TestTable_HeaderFormatter(t *testing.T) {
	tbl := MustNew([]*ColumnSpec{
		{Field: "a", Name: "<A>", HeaderFormatter: func(t *Table, col *ColumnSpec, title template.HTML) template.HTML {
			return "<b>" + title + "</b>"
		}},
		{Field: "b", Title: "Bee", Name: "B"},
	}, nil)
	tbl.Load([]Row{})
	require.NoError(t, tbl.Render(context.Background()))
	assert.Equal(t, "<tr><th><b>&lt;A&gt;</b></th>\n<th>Bee</th></tr>", string(tbl.Head()))
	assert.Empty(t, tbl.Body())
}

func TestTable_HeaderRowOnlyWithTitles(t *testing.T) {
	tbl := MustNew([]*ColumnSpec{{Field: "a"}, {Field: "b"}}, nil)
	tbl.Load([]Row{{"a": 1, "b": 2}})
	require.NoError(t, tbl.Render(context.Background()))
	assert.Empty(t, tbl.Head())
	assert.NotContains(t, string(tbl.HTML()), "<thead>")
}

func TestTable_ClassNames(t *testing.T) {
	col := &ColumnSpec{Field: "a", Name: "A", ClassName: "testing", HeaderClassName: "head", Width: "20%"}
	tbl := MustNew([]*ColumnSpec{col}, &Options{
		CellClassName:       "foo",
		HeaderCellClassName: "bar",
		HeadRowClassName:    "headRow",
		BodyRowClassName:    "bodyRow",
	})
	tbl.Load([]Row{{"a": 1}})
	require.NoError(t, tbl.Render(context.Background()))

	assert.Equal(t, `<tr class="headRow"><th width="20%" class="head bar">A</th></tr>`, string(tbl.Head()))
	assert.Equal(t, "<tr class=\"bodyRow\">\n<td width=\"20%\" class=\"testing foo\">1</td>\n</tr>", string(tbl.Body()))
	assert.Equal(t, "testing", col.ClassName, "global class names do not mutate the column spec")
}

func TestTable_DefaultSpec(t *testing.T) {
	tbl := MustNew(nil, nil)
	assert.Nil(t, tbl.Columns())
	tbl.Load([]Row{{"b": 1, "a": 2}, {"c": 3}})
	require.NoError(t, tbl.Render(context.Background()))

	var fields []string
	for _, col := range tbl.Columns().All() {
		fields = append(fields, col.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, fields)
	assert.Empty(t, tbl.Head())
	assert.Equal(t, "<tr>\n<td>2</td>\n<td>1</td>\n<td></td>\n</tr>\n<tr>\n<td></td>\n<td></td>\n<td>3</td>\n</tr>", string(tbl.Body()))
}

func TestTable_DisabledColumns(t *testing.T) {
	tbl := MustNew([]*ColumnSpec{{Field: "a", Name: "A"}, {Field: "b", Name: "B", Disabled: true}}, nil)
	tbl.Load([]Row{{"a": 1, "b": 2}})
	require.NoError(t, tbl.Render(context.Background()))
	assert.Equal(t, "<tr><th>A</th></tr>", string(tbl.Head()))
	assert.Equal(t, "<tr>\n<td>1</td>\n</tr>", string(tbl.Body()))
}

func TestTable_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("options", func(t *testing.T) {
		var got []FetchOptions
		tbl := MustNew([]*ColumnSpec{{Field: "a"}}, &Options{
			Fetch: FetcherFunc(func(ctx context.Context, opts FetchOptions, done FetchDone) {
				got = append(got, opts)
				done(&Data{Items: []Row{{"a": "fetched"}}}, nil)
			}),
		})
		require.NoError(t, tbl.Render(ctx))
		assert.Equal(t, []FetchOptions{{}}, got)
		assert.Contains(t, string(tbl.Body()), "fetched")
	})

	t.Run("missing items", func(t *testing.T) {
		for _, data := range []*Data{nil, {TotalResults: 10}} {
			tbl := MustNew([]*ColumnSpec{{Field: "a"}}, &Options{Fetch: StaticFetcher(data)})
			var rendered []RenderedEvent
			tbl.On(EventRendered, func(payload any) { rendered = append(rendered, payload.(RenderedEvent)) })

			err := tbl.Render(ctx)
			require.ErrorIs(t, err, ErrMissingFetchData)
			require.Len(t, rendered, 1)
			require.ErrorIs(t, rendered[0].Err, ErrMissingFetchData)
			assert.False(t, tbl.Loading())
		}
	})

	t.Run("fetch error", func(t *testing.T) {
		fetchErr := errors.New("connection refused")
		tbl := MustNew([]*ColumnSpec{{Field: "a"}}, &Options{
			Fetch: FetcherFunc(func(ctx context.Context, opts FetchOptions, done FetchDone) {
				done(nil, fetchErr)
			}),
		})
		require.ErrorIs(t, tbl.Render(ctx), fetchErr)
	})
}

func TestTable_AsyncFetch(t *testing.T) {
	ctx := context.Background()
	var pending []FetchDone
	tbl := MustNew([]*ColumnSpec{{Field: "v"}}, &Options{
		ClassName: "data",
		Fetch: FetcherFunc(func(ctx context.Context, opts FetchOptions, done FetchDone) {
			pending = append(pending, done)
		}),
	})
	var rendered int
	tbl.On(EventRendered, func(any) { rendered++ })

	require.NoError(t, tbl.Render(ctx))
	require.NoError(t, tbl.Render(ctx))
	require.Len(t, pending, 2)
	assert.True(t, tbl.Loading())
	assert.Equal(t, "data loading", tbl.ClassName())
	assert.Contains(t, string(tbl.HTML()), `class="data loading"`)

	pending[1](&Data{Items: []Row{{"v": "new"}}}, nil)
	assert.False(t, tbl.Loading())
	assert.Equal(t, "data", tbl.ClassName())
	assert.Equal(t, 1, rendered)

	// stale completion is discarded
	pending[0](&Data{Items: []Row{{"v": "old"}}}, nil)
	assert.Contains(t, string(tbl.Body()), "new")
	assert.NotContains(t, string(tbl.Body()), "old")
	assert.Equal(t, 1, rendered)
}

// bodyHookPlugin calls hook before the body of every render cycle is rendered.
type bodyHookPlugin struct {
	hook func(t *Table)
}

func (p *bodyHookPlugin) PluginName() string { return "bodyHook" }

func (p *bodyHookPlugin) Attach(t *Table) error {
	t.Decorate(func(next Pipeline) Pipeline {
		return bodyHookPipeline{Pipeline: next, hook: p.hook}
	})
	return nil
}

type bodyHookPipeline struct {
	Pipeline
	hook func(t *Table)
}

func (h bodyHookPipeline) RenderBody(t *Table, data *Data, cols []*ColumnSpec) template.HTML {
	h.hook(t)
	return h.Pipeline.RenderBody(t, data, cols)
}

func TestTable_RenderSupersededWhileRendering(t *testing.T) {
	ctx := context.Background()
	var (
		fetches int
		pending []FetchDone
	)
	rerendered := false
	tbl := MustNew([]*ColumnSpec{{Field: "v"}}, &Options{
		Fetch: FetcherFunc(func(ctx context.Context, opts FetchOptions, done FetchDone) {
			fetches++
			if fetches == 1 {
				done(&Data{Items: []Row{{"v": "old"}}}, nil)
				return
			}
			pending = append(pending, done)
		}),
		Plugins: []Plugin{&bodyHookPlugin{hook: func(table *Table) {
			if !rerendered {
				rerendered = true
				assert.NoError(t, table.Render(ctx))
			}
		}}},
	})
	var rendered int
	tbl.On(EventRendered, func(any) { rendered++ })

	require.NoError(t, tbl.Render(ctx))
	require.Len(t, pending, 1)
	assert.Empty(t, tbl.Body(), "superseded cycle must not commit")
	assert.True(t, tbl.Loading())
	assert.Equal(t, 0, rendered)

	pending[0](&Data{Items: []Row{{"v": "new"}}}, nil)
	assert.Equal(t, "<tr>\n<td>new</td>\n</tr>", string(tbl.Body()))
	assert.False(t, tbl.Loading())
	assert.Equal(t, 1, rendered)
}

type footPlugin struct {
	name     string
	text     template.HTML
	detached *[]string
	replaced Pipeline
}

func (p *footPlugin) PluginName() string { return p.name }

func (p *footPlugin) Attach(t *Table) error {
	p.replaced = t.Decorate(func(next Pipeline) Pipeline {
		return footPipeline{Pipeline: next, text: p.text}
	})
	return nil
}

func (p *footPlugin) Detach(t *Table) error {
	*p.detached = append(*p.detached, p.name)
	t.Restore(p.replaced)
	return nil
}

type footPipeline struct {
	Pipeline
	text template.HTML
}

func (f footPipeline) RenderFoot(t *Table, data *Data, cols []*ColumnSpec) template.HTML {
	return f.Pipeline.RenderFoot(t, data, cols) + f.text
}

type failingPlugin struct{}

func (failingPlugin) PluginName() string { return "failing" }

func (failingPlugin) Attach(t *Table) error {
	return ErrMissingDependency
}

func TestTable_Plugins(t *testing.T) {
	ctx := context.Background()
	var detached []string
	a := &footPlugin{name: "a", text: "<tr><td>a</td></tr>", detached: &detached}
	b := &footPlugin{name: "b", text: "<tr><td>b</td></tr>", detached: &detached}

	tbl := MustNew([]*ColumnSpec{{Field: "x"}}, nil)
	base := tbl.Pipeline()

	require.NoError(t, tbl.AddPlugin(a))
	afterA := tbl.Pipeline()
	require.NoError(t, tbl.AddPlugin(b))
	assert.Same(t, a, tbl.Plugin("a"))
	assert.Equal(t, []string{"a", "b"}, tbl.PluginNames())

	require.ErrorIs(t, tbl.AddPlugin(&footPlugin{name: "a"}), ErrDuplicatePlugin)
	require.ErrorIs(t, tbl.AddPlugin(failingPlugin{}), ErrMissingDependency)
	assert.Nil(t, tbl.Plugin("failing"))

	tbl.Load([]Row{{"x": 1}})
	require.NoError(t, tbl.Render(ctx))
	assert.Equal(t, "<tr><td>a</td></tr><tr><td>b</td></tr>", string(tbl.Foot()))

	require.NoError(t, tbl.RemovePlugin("b"))
	assert.Equal(t, afterA, tbl.Pipeline())
	require.NoError(t, tbl.AddPlugin(b))

	require.NoError(t, tbl.Destroy())
	assert.Equal(t, []string{"b", "b", "a"}, detached)
	assert.Equal(t, base, tbl.Pipeline())
	assert.Nil(t, tbl.Plugin("a"))
	assert.Empty(t, tbl.Body())

	require.NoError(t, tbl.Render(ctx))
	assert.Empty(t, tbl.Foot())
}

func TestTable_Events(t *testing.T) {
	tbl := MustNew(nil, nil)
	var got []any
	off := tbl.On(EventPaged, func(payload any) { got = append(got, payload) })
	tbl.On(EventSorted, func(payload any) { got = append(got, "sorted") })

	tbl.Trigger(EventPaged, PagedEvent{CurrentPage: 1, PageSize: 20})
	off()
	tbl.Trigger(EventPaged, PagedEvent{CurrentPage: 2, PageSize: 20})
	tbl.Trigger(EventSorted, nil)

	assert.Equal(t, []any{PagedEvent{CurrentPage: 1, PageSize: 20}, "sorted"}, got)
}

func TestTable_AddToSpecAndRemoveFromSpec(t *testing.T) {
	tbl := MustNew([]*ColumnSpec{{Field: "a", Name: "A"}}, nil)
	require.NoError(t, tbl.AddToSpec(&ColumnSpec{Field: "b", Name: "B"}))
	require.ErrorIs(t, tbl.AddToSpec(&ColumnSpec{Field: "a"}), ErrDuplicateID)

	removed, err := tbl.RemoveFromSpec(ID("missing"))
	require.NoError(t, err)
	assert.Nil(t, removed)

	removed, err = tbl.RemoveFromSpec(HasAttrs(map[string]any{"name": "A"}))
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "a", removed.ID)

	col, err := tbl.GetField(ID("b"))
	require.NoError(t, err)
	assert.Equal(t, "B", col.Name)

	_, err = tbl.GetField(nil)
	require.ErrorIs(t, err, ErrUnmatchedArgument)

	_, err = New([]*ColumnSpec{{Field: "a"}, {Field: "a"}}, nil)
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestTable_WriteHTMLCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var b strings.Builder
	err := MustNew(nil, nil).WriteHTML(ctx, &b)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, b.String())
}
