// Package togglecolumns adds a head row with a "Columns" button
// and the model of an overlay listing all toggleable columns
// so the user can show or hide them.
package togglecolumns

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	tabler "github.com/domonda/go-tabler"
)

const PluginName = "toggleColumns"

// ColumnFormatter returns the label of a column in the overlay.
type ColumnFormatter func(col *tabler.ColumnSpec) template.HTML

// GroupFormatter returns the label of a column group in the overlay.
type GroupFormatter func(groupName string) template.HTML

// DefaultColumnFormatter returns the escaped name,
// field or ID of the column, whichever is set first.
func DefaultColumnFormatter(col *tabler.ColumnSpec) template.HTML {
	switch {
	case col.Name != "":
		return tabler.Escape(col.Name)
	case col.Field != "":
		return tabler.Escape(col.Field)
	default:
		return tabler.Escape(col.ID)
	}
}

func DefaultGroupFormatter(groupName string) template.HTML {
	return tabler.Escape(groupName)
}

type Options struct {
	// HeaderHTML is rendered in front of the "Columns" button.
	HeaderHTML template.HTML `yaml:"headerHTML"`
	// HeaderFunc replaces HeaderHTML if not nil.
	HeaderFunc func(t *tabler.Table) template.HTML `yaml:"-"`

	// Formatters by column ID.
	Formatters map[string]ColumnFormatter `yaml:"-"`
	// GroupFormatters by group name.
	GroupFormatters map[string]GroupFormatter `yaml:"-"`

	// CustomColumns are listed in the overlay in front of the
	// table columns without being part of the column spec.
	CustomColumns []*tabler.ColumnSpec `yaml:"-"`
}

func (o *Options) Validate() error {
	for i, col := range o.CustomColumns {
		if col == nil {
			return fmt.Errorf("custom column %d is nil: %w", i, tabler.ErrInvalidSpec)
		}
		if columnID(col) == "" {
			return fmt.Errorf("custom column %d has no id, field or name: %w", i, tabler.ErrInvalidSpec)
		}
	}
	return nil
}

type ToggleColumns struct {
	options  Options
	table    *tabler.Table
	replaced tabler.Pipeline
	custom   []*tabler.ColumnSpec
}

func New(options Options) *ToggleColumns {
	return &ToggleColumns{options: options}
}

// Of returns the ToggleColumns plugin attached to t or nil.
func Of(t *tabler.Table) *ToggleColumns {
	c, _ := t.Plugin(PluginName).(*ToggleColumns)
	return c
}

func (c *ToggleColumns) PluginName() string { return PluginName }

func (c *ToggleColumns) Attach(t *tabler.Table) error {
	if err := c.options.Validate(); err != nil {
		return err
	}
	c.table = t
	c.custom = append([]*tabler.ColumnSpec(nil), c.options.CustomColumns...)
	c.replaced = t.Decorate(func(next tabler.Pipeline) tabler.Pipeline {
		return pipeline{Pipeline: next, toggle: c}
	})
	return nil
}

func (c *ToggleColumns) Detach(t *tabler.Table) error {
	t.Restore(c.replaced)
	c.replaced = nil
	c.table = nil
	c.custom = nil
	return nil
}

// AddCustomColumns adds columns to the overlay
// that are not part of the column spec.
func (c *ToggleColumns) AddCustomColumns(cols ...*tabler.ColumnSpec) error {
	for i, col := range cols {
		if col == nil || columnID(col) == "" {
			return fmt.Errorf("custom column %d has no id, field or name: %w", i, tabler.ErrInvalidSpec)
		}
	}
	c.custom = append(c.custom, cols...)
	return nil
}

// CustomColumn returns the first custom column matching m or nil.
func (c *ToggleColumns) CustomColumn(m tabler.Matcher) *tabler.ColumnSpec {
	if m == nil {
		return nil
	}
	for _, col := range c.custom {
		if m.MatchColumn(col) {
			return col
		}
	}
	return nil
}

// Apply shows the toggleable columns with an ID in checkedIDs,
// hides all other toggleable columns, renders the table
// and triggers tabler.EventColumnsToggled.
// At least one column has to be checked.
func (c *ToggleColumns) Apply(ctx context.Context, checkedIDs []string) error {
	if len(checkedIDs) == 0 {
		return fmt.Errorf("no column checked: %w", tabler.ErrInvalidOptions)
	}
	if c.table == nil {
		return fmt.Errorf("%s plugin not attached: %w", PluginName, tabler.ErrMissingDependency)
	}
	checked := make(map[string]bool, len(checkedIDs))
	for _, id := range checkedIDs {
		checked[id] = true
	}
	c.table.Synchronized(func() {
		for _, col := range c.toggleableColumns() {
			col.Disabled = !checked[columnID(col)]
		}
	})
	if err := c.table.Render(ctx); err != nil {
		return err
	}
	c.table.Trigger(tabler.EventColumnsToggled, tabler.ColumnsToggledEvent{})
	return nil
}

// toggleableColumns returns the custom columns
// followed by the toggleable columns of the table.
func (c *ToggleColumns) toggleableColumns() []*tabler.ColumnSpec {
	var cols []*tabler.ColumnSpec
	seen := make(map[*tabler.ColumnSpec]bool)
	for _, col := range append(append([]*tabler.ColumnSpec(nil), c.custom...), c.table.Columns().All()...) {
		if seen[col] || !col.IsToggleable() {
			continue
		}
		seen[col] = true
		cols = append(cols, col)
	}
	return cols
}

func (c *ToggleColumns) headerHTML() template.HTML {
	if c.options.HeaderFunc != nil {
		return c.options.HeaderFunc(c.table)
	}
	return c.options.HeaderHTML
}

func (c *ToggleColumns) renderHeadRow(cols []*tabler.ColumnSpec) template.HTML {
	lines := []string{
		`<tr class="toggleColumns">`,
		`<th colspan="` + strconv.Itoa(len(cols)) + `">`,
		string(c.headerHTML()),
		`<button class="showHide">Columns</button>`,
		`</th>`,
		`</tr>`,
	}
	return template.HTML(strings.Join(lines, "\n")) //#nosec G203
}

func columnID(col *tabler.ColumnSpec) string {
	switch {
	case col.ID != "":
		return col.ID
	case col.Field != "":
		return col.Field
	default:
		return col.Name
	}
}

type pipeline struct {
	tabler.Pipeline
	toggle *ToggleColumns
}

func (p pipeline) RenderHead(t *tabler.Table, data *tabler.Data, cols []*tabler.ColumnSpec) template.HTML {
	return p.toggle.renderHeadRow(cols) + p.Pipeline.RenderHead(t, data, cols)
}
