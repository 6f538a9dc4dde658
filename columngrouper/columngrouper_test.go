package columngrouper

import (
	"context"
	"fmt"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabler "github.com/domonda/go-tabler"
)

func groupedColumns() []*tabler.ColumnSpec {
	return []*tabler.ColumnSpec{
		{Field: "column1", Name: "Column 1"},
		{Field: "column2", Name: "Column 2", GroupName: "Group 1"},
		{Field: "column3", Name: "Column 3", GroupName: "Group 1"},
		{Field: "column4", Name: "Column 4"},
	}
}

func render(t *testing.T, cols []*tabler.ColumnSpec, g *ColumnGrouper) *tabler.Table {
	t.Helper()
	tbl, err := tabler.New(cols, &tabler.Options{Plugins: []tabler.Plugin{g}})
	require.NoError(t, err)
	tbl.Load([]tabler.Row{{"column1": 1, "column2": 2, "column3": 3, "column4": 4}})
	require.NoError(t, tbl.Render(context.Background()))
	return tbl
}

func TestColumnGrouper_GroupRow(t *testing.T) {
	tbl := render(t, groupedColumns(), New(Options{}))
	assert.Equal(t, ""+
		`<tr class="columnGroups"><th colspan="1"></th>`+"\n"+
		`<th colspan="2" class="group-1">Group 1</th>`+"\n"+
		`<th colspan="1"></th></tr>`+
		`<tr><th>Column 1</th>`+"\n"+
		`<th>Column 2</th>`+"\n"+
		`<th>Column 3</th>`+"\n"+
		`<th>Column 4</th></tr>`,
		string(tbl.Head()),
	)
}

func TestColumnGrouper_NoGroups(t *testing.T) {
	tbl := render(t, []*tabler.ColumnSpec{{Field: "column1", Name: "Column 1"}}, New(Options{}))
	assert.Equal(t, "<tr><th>Column 1</th></tr>", string(tbl.Head()))
}

func TestColumnGrouper_FormatterAndClassNames(t *testing.T) {
	g := New(Options{
		Formatters: map[string]GroupFormatter{
			"Group 1": func(t *tabler.Table, group tabler.GroupSpec) template.HTML {
				return template.HTML(fmt.Sprintf("<span>%s spans %d columns</span>", group.GroupName, group.Count))
			},
		},
		HeaderCellClassNames:     map[string]string{"Group 1": "foo"},
		GroupHeaderCellClassName: "group",
	})
	cols := groupedColumns()[1:3]
	tbl := render(t, cols, g)
	assert.Contains(t, string(tbl.Head()),
		`<tr class="columnGroups"><th colspan="2" class="foo group"><span>Group 1 spans 2 columns</span></th></tr>`)
	assert.NotNil(t, g.Formatter("Group 1"))
	assert.Nil(t, g.Formatter("Group 2"))
}

func TestColumnGrouper_FirstAndLastInGroup(t *testing.T) {
	classes := func(tbl *tabler.Table, tag string) []string {
		var got []string
		for _, col := range tbl.Columns().Visible() {
			var attrs tabler.Attrs
			if tag == "th" {
				attrs = tbl.Pipeline().MakeHeaderAttrs(tbl, col)
			} else {
				attrs = tbl.Pipeline().MakeColumnAttrs(tbl, col)
			}
			got = append(got, attrs.Get("class"))
		}
		return got
	}

	tbl := render(t, groupedColumns(), New(Options{FirstCellInGroupClassName: "fist"}))
	assert.Equal(t, []string{"fist", "fist", "", "fist"}, classes(tbl, "th"))
	assert.Equal(t, []string{"fist", "fist", "", "fist"}, classes(tbl, "td"))
	assert.Contains(t, string(tbl.Body()), `<td class="fist">2</td>`+"\n"+`<td>3</td>`)

	tbl = render(t, groupedColumns(), New(Options{LastCellInGroupClassName: "lst"}))
	assert.Equal(t, []string{"lst", "", "lst", "lst"}, classes(tbl, "th"))
	assert.Equal(t, []string{"lst", "", "lst", "lst"}, classes(tbl, "td"))
}

func TestColumnGrouper_Detach(t *testing.T) {
	g := New(Options{})
	tbl := render(t, groupedColumns(), g)
	assert.Same(t, g, Of(tbl))
	require.NoError(t, tbl.RemovePlugin(PluginName))
	require.NoError(t, tbl.Render(context.Background()))
	assert.NotContains(t, string(tbl.Head()), "columnGroups")
}

func TestClassNameOfGroup(t *testing.T) {
	assert.Equal(t, "group-1", ClassNameOfGroup("Group 1"))
	assert.Equal(t, "a-b-c", ClassNameOfGroup("A\tB C"))
	assert.Equal(t, "", ClassNameOfGroup(""))
}
