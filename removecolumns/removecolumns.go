// Package removecolumns adds links to header cells
// that hide their column when followed.
package removecolumns

import (
	"context"
	"encoding/json"
	"html/template"

	tabler "github.com/domonda/go-tabler"
	"github.com/domonda/go-tabler/columngrouper"
)

const PluginName = "removeColumns"

// DefaultLinkTitle is the title of remove links.
const DefaultLinkTitle = `Hide this column. To show again later, click the "Columns" button top right`

type Options struct {
	LinkTitle string `yaml:"linkTitle"`
}

// RemoveColumns prefixes the header of every toggleable column
// with a remove link carrying the column ID in its data-ids attribute.
// If the columngrouper plugin is attached before, then group headers
// get a remove link for all columns of the group.
type RemoveColumns struct {
	options  Options
	table    *tabler.Table
	replaced tabler.Pipeline

	headerFormatters map[*tabler.ColumnSpec]tabler.HeaderFormatterFunc
	groupFormatters  map[string]columngrouper.GroupFormatter
}

func New(options Options) *RemoveColumns {
	if options.LinkTitle == "" {
		options.LinkTitle = DefaultLinkTitle
	}
	return &RemoveColumns{options: options}
}

// Of returns the RemoveColumns plugin attached to t or nil.
func Of(t *tabler.Table) *RemoveColumns {
	r, _ := t.Plugin(PluginName).(*RemoveColumns)
	return r
}

func (r *RemoveColumns) PluginName() string { return PluginName }

func (r *RemoveColumns) Attach(t *tabler.Table) error {
	r.table = t
	r.headerFormatters = make(map[*tabler.ColumnSpec]tabler.HeaderFormatterFunc)
	r.groupFormatters = make(map[string]columngrouper.GroupFormatter)
	r.formatColumns(t.Columns().All())
	r.replaced = t.Decorate(func(next tabler.Pipeline) tabler.Pipeline {
		return pipeline{Pipeline: next, remove: r}
	})
	return nil
}

func (r *RemoveColumns) Detach(t *tabler.Table) error {
	t.Restore(r.replaced)
	for col, f := range r.headerFormatters {
		col.HeaderFormatter = f
	}
	if grouper := columngrouper.Of(t); grouper != nil {
		for name, f := range r.groupFormatters {
			grouper.SetFormatter(name, f)
		}
	}
	r.headerFormatters = nil
	r.groupFormatters = nil
	r.replaced = nil
	r.table = nil
	return nil
}

// Remove hides the columns with the passed IDs,
// renders the table and triggers tabler.EventColumnsToggled.
// Unknown IDs are ignored.
func (r *RemoveColumns) Remove(ctx context.Context, ids ...string) error {
	var err error
	r.table.Synchronized(func() {
		for _, id := range ids {
			var col *tabler.ColumnSpec
			col, err = r.table.GetField(tabler.ID(id))
			if err != nil {
				return
			}
			if col != nil {
				col.Disabled = true
			}
		}
	})
	if err != nil {
		return err
	}
	if err := r.table.Render(ctx); err != nil {
		return err
	}
	r.table.Trigger(tabler.EventColumnsToggled, tabler.ColumnsToggledEvent{})
	return nil
}

func (r *RemoveColumns) link(ids []string) template.HTML {
	data, _ := json.Marshal(ids)
	return `<a href class="removeColumn" data-ids="` + tabler.Escape(string(data)) +
		`" title="` + tabler.Escape(r.options.LinkTitle) + `">x</a>`
}

func (r *RemoveColumns) formatColumns(cols []*tabler.ColumnSpec) {
	for _, col := range cols {
		if _, ok := r.headerFormatters[col]; ok {
			continue
		}
		previous := col.HeaderFormatter
		r.headerFormatters[col] = previous
		col.HeaderFormatter = func(t *tabler.Table, col *tabler.ColumnSpec, html template.HTML) template.HTML {
			if previous != nil {
				html = previous(t, col, html)
			}
			if col.IsToggleable() && html != "" {
				html = r.link([]string{col.ID}) + html
			}
			return `<span class="name">` + html + `</span>`
		}
	}
	if grouper := columngrouper.Of(r.table); grouper != nil {
		r.formatGroups(grouper, cols)
	}
}

func (r *RemoveColumns) formatGroups(grouper *columngrouper.ColumnGrouper, cols []*tabler.ColumnSpec) {
	for _, group := range tabler.GroupColumns(cols) {
		name := group.GroupName
		if name == "" {
			continue
		}
		if _, ok := r.groupFormatters[name]; ok {
			continue
		}
		previous := grouper.Formatter(name)
		r.groupFormatters[name] = previous
		grouper.SetFormatter(name, func(t *tabler.Table, group tabler.GroupSpec) template.HTML {
			var html template.HTML
			if previous != nil {
				html = previous(t, group)
			} else {
				html = columngrouper.DefaultGroupFormatter(t, group)
			}
			var (
				ids        []string
				toggleable = true
			)
			for _, col := range t.Columns().All() {
				if col.GroupName == group.GroupName {
					ids = append(ids, col.ID)
					toggleable = toggleable && col.IsToggleable()
				}
			}
			if len(ids) > 0 && toggleable {
				html = r.link(ids) + html
			}
			return `<span class="name">` + html + `</span>`
		})
	}
}

type pipeline struct {
	tabler.Pipeline
	remove *RemoveColumns
}

func (p pipeline) AddToSpec(t *tabler.Table, specs []*tabler.ColumnSpec) error {
	if err := p.Pipeline.AddToSpec(t, specs); err != nil {
		return err
	}
	p.remove.formatColumns(specs)
	return nil
}
