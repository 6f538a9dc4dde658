// Package columngrouper renders a header row spanning
// adjacent columns with the same group name.
package columngrouper

import (
	"html/template"
	"strconv"
	"strings"
	"unicode"

	tabler "github.com/domonda/go-tabler"
)

const PluginName = "columnGrouper"

// GroupFormatter returns the content of a group header cell.
type GroupFormatter func(t *tabler.Table, group tabler.GroupSpec) template.HTML

// DefaultGroupFormatter returns the escaped group name.
func DefaultGroupFormatter(t *tabler.Table, group tabler.GroupSpec) template.HTML {
	return tabler.Escape(group.GroupName)
}

type Options struct {
	// Formatters by group name.
	Formatters map[string]GroupFormatter `yaml:"-"`
	// HeaderCellClassNames by group name replace the class name
	// derived from the group name.
	HeaderCellClassNames map[string]string `yaml:"headerCellClassNames"`

	GroupHeaderCellClassName  string `yaml:"groupHeaderCellClassName"`
	FirstCellInGroupClassName string `yaml:"firstCellInGroupClassName"`
	LastCellInGroupClassName  string `yaml:"lastCellInGroupClassName"`
}

type ColumnGrouper struct {
	options  Options
	replaced tabler.Pipeline

	// from the last RenderHead
	first map[*tabler.ColumnSpec]bool
	last  map[*tabler.ColumnSpec]bool
}

func New(options Options) *ColumnGrouper {
	formatters := make(map[string]GroupFormatter, len(options.Formatters))
	for name, f := range options.Formatters {
		formatters[name] = f
	}
	options.Formatters = formatters
	return &ColumnGrouper{options: options}
}

// Of returns the ColumnGrouper attached to t or nil.
func Of(t *tabler.Table) *ColumnGrouper {
	g, _ := t.Plugin(PluginName).(*ColumnGrouper)
	return g
}

func (g *ColumnGrouper) PluginName() string { return PluginName }

func (g *ColumnGrouper) Attach(t *tabler.Table) error {
	g.replaced = t.Decorate(func(next tabler.Pipeline) tabler.Pipeline {
		return pipeline{Pipeline: next, grouper: g}
	})
	return nil
}

func (g *ColumnGrouper) Detach(t *tabler.Table) error {
	t.Restore(g.replaced)
	g.replaced = nil
	g.first = nil
	g.last = nil
	return nil
}

// Formatter returns the formatter for a group name
// or nil if the default is used.
func (g *ColumnGrouper) Formatter(groupName string) GroupFormatter {
	return g.options.Formatters[groupName]
}

// SetFormatter sets the formatter for a group name.
func (g *ColumnGrouper) SetFormatter(groupName string, f GroupFormatter) {
	g.options.Formatters[groupName] = f
}

// HeaderCellClassName returns the class name of a group header cell.
func (g *ColumnGrouper) HeaderCellClassName(groupName string) string {
	className := g.options.HeaderCellClassNames[groupName]
	if className == "" {
		className = ClassNameOfGroup(groupName)
	}
	return tabler.JoinClassNames(className, g.options.GroupHeaderCellClassName)
}

// ClassNameOfGroup lowercases the group name
// and replaces all white space with '-'.
func ClassNameOfGroup(groupName string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, groupName))
}

func (g *ColumnGrouper) renderGroupRow(t *tabler.Table, groups []tabler.GroupSpec) template.HTML {
	cells := make([]string, len(groups))
	for i, group := range groups {
		formatter := g.options.Formatters[group.GroupName]
		if formatter == nil {
			formatter = DefaultGroupFormatter
		}
		cells[i] = string(tabler.MakeTag("th", formatter(t, group), tabler.Attrs{
			{Name: "colspan", Value: strconv.Itoa(group.Count)},
			{Name: "class", Value: g.HeaderCellClassName(group.GroupName)},
		}))
	}
	return template.HTML(`<tr class="columnGroups">` + strings.Join(cells, "\n") + `</tr>`) //#nosec G203
}

func (g *ColumnGrouper) addGroupClasses(col *tabler.ColumnSpec, attrs tabler.Attrs) tabler.Attrs {
	if g.options.FirstCellInGroupClassName != "" && g.first[col] {
		attrs = attrs.AddClass(g.options.FirstCellInGroupClassName)
	}
	if g.options.LastCellInGroupClassName != "" && g.last[col] {
		attrs = attrs.AddClass(g.options.LastCellInGroupClassName)
	}
	return attrs
}

type pipeline struct {
	tabler.Pipeline
	grouper *ColumnGrouper
}

func (p pipeline) RenderHead(t *tabler.Table, data *tabler.Data, cols []*tabler.ColumnSpec) template.HTML {
	g := p.grouper
	groups := tabler.GroupColumns(cols)
	g.first = make(map[*tabler.ColumnSpec]bool, len(groups))
	g.last = make(map[*tabler.ColumnSpec]bool, len(groups))
	for _, group := range groups {
		g.first[cols[group.StartIndex]] = true
		g.last[cols[group.StartIndex+group.Count-1]] = true
	}
	var head template.HTML
	if tabler.HasGroupNames(cols) {
		head = g.renderGroupRow(t, groups)
	}
	return head + p.Pipeline.RenderHead(t, data, cols)
}

func (p pipeline) MakeHeaderAttrs(t *tabler.Table, col *tabler.ColumnSpec) tabler.Attrs {
	return p.grouper.addGroupClasses(col, p.Pipeline.MakeHeaderAttrs(t, col))
}

func (p pipeline) MakeColumnAttrs(t *tabler.Table, col *tabler.ColumnSpec) tabler.Attrs {
	return p.grouper.addGroupClasses(col, p.Pipeline.MakeColumnAttrs(t, col))
}
