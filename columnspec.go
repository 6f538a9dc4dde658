package tabler

import (
	"html/template"
	"reflect"
)

// Row is a single record of a table dataset keyed by field name.
type Row = map[string]any

// FormatterFunc turns the escaped text of a cell value into trusted markup.
// The returned HTML is not escaped again.
type FormatterFunc func(t *Table, value template.HTML, col *ColumnSpec, row Row, index int) template.HTML

// HeaderFormatterFunc turns the escaped header title
// of a column into trusted markup.
type HeaderFormatterFunc func(t *Table, col *ColumnSpec, title template.HTML) template.HTML

// AggregatorFunc folds a cell value into the running
// aggregate of a column, see the aggregator package.
type AggregatorFunc func(acc, value any, index int) any

// ColumnSpec describes one column of a table.
//
// ColumnSpecs are shared by pointer between the Table,
// the plugins and the caller, so mutations of a registered
// spec are visible to the next render.
type ColumnSpec struct {
	// ID uniquely identifies the column within a Table.
	// Defaults to Field, then to Name.
	ID string
	// Field is the Row key of the column value.
	Field string
	// Name is the default header text.
	Name string
	// Title is the header text used instead of Name
	// if not empty or if HasTitle is true.
	Title    string
	HasTitle bool

	GroupName string
	Disabled  bool
	// Toggleable defaults to true if nil.
	Toggleable *bool

	ClassName       string
	HeaderClassName string
	Width           string
	DefaultText     string

	Formatter       FormatterFunc
	HeaderFormatter HeaderFormatterFunc

	Sortable       bool
	Aggregator     AggregatorFunc
	AggregatorText string

	// UpdateFields lists additional Row fields
	// that the formatted value of the column depends on.
	UpdateFields []string

	Extra map[string]any
}

// HeaderTitle returns Title if set or else Name.
func (c *ColumnSpec) HeaderTitle() string {
	if c.HasTitle || c.Title != "" {
		return c.Title
	}
	return c.Name
}

func (c *ColumnSpec) hasHeader() bool {
	return c.HeaderTitle() != "" || c.HeaderFormatter != nil
}

// IsToggleable returns if the column can be hidden by the user.
func (c *ColumnSpec) IsToggleable() bool {
	return c.Toggleable == nil || *c.Toggleable
}

// DependsOn returns true if the column value
// has to be re-rendered when field changes.
func (c *ColumnSpec) DependsOn(field string) bool {
	if c.Field == field {
		return true
	}
	for _, f := range c.UpdateFields {
		if f == field {
			return true
		}
	}
	return false
}

// Attr returns a named attribute of the column
// as used by the Attrs matcher.
// Unknown names are looked up in Extra.
func (c *ColumnSpec) Attr(name string) (value any, ok bool) {
	switch name {
	case "id":
		return c.ID, true
	case "field":
		return c.Field, true
	case "name":
		return c.Name, true
	case "title":
		return c.HeaderTitle(), true
	case "groupName":
		return c.GroupName, true
	case "disabled":
		return c.Disabled, true
	case "toggleable":
		return c.IsToggleable(), true
	case "className":
		return c.ClassName, true
	case "headerClassName":
		return c.HeaderClassName, true
	case "width":
		return c.Width, true
	case "defaultText":
		return c.DefaultText, true
	case "sortable":
		return c.Sortable, true
	}
	value, ok = c.Extra[name]
	return value, ok
}

func (c *ColumnSpec) matchesAttrs(attrs map[string]any) bool {
	for name, want := range attrs {
		have, ok := c.Attr(name)
		if !ok || !reflect.DeepEqual(have, want) {
			return false
		}
	}
	return true
}

func (c *ColumnSpec) defaultID() string {
	switch {
	case c.ID != "":
		return c.ID
	case c.Field != "":
		return c.Field
	default:
		return c.Name
	}
}

// Bool returns a pointer to b,
// usable for ColumnSpec.Toggleable.
func Bool(b bool) *bool {
	return &b
}

// ColumnsForFields returns one ColumnSpec per field
// using SpacePascalCase of the field as column name.
func ColumnsForFields(fields []string) []*ColumnSpec {
	cols := make([]*ColumnSpec, len(fields))
	for i, field := range fields {
		cols[i] = &ColumnSpec{Field: field, Name: SpacePascalCase(field)}
	}
	return cols
}
