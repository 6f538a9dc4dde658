package togglecolumns

import (
	"html/template"
	"strconv"
	"strings"

	tabler "github.com/domonda/go-tabler"
)

// Overlay lists the toggleable columns of a table
// grouped by their group name.
type Overlay struct {
	Groups []OverlayGroup
}

// OverlayGroup holds the columns of one group name
// in the order of their first occurrence.
// Columns without group name are in a group with empty Name.
type OverlayGroup struct {
	Name  string
	Label template.HTML
	// Checked is true if any column of the group is visible.
	Checked bool
	// PartiallySelected is true if not all columns
	// of the group are visible.
	PartiallySelected bool
	Columns           []OverlayColumn
}

type OverlayColumn struct {
	ID      string
	Label   template.HTML
	Checked bool
	Custom  bool
}

// CheckedIDs returns the IDs of all checked columns.
func (o *Overlay) CheckedIDs() []string {
	var ids []string
	for _, group := range o.Groups {
		for _, col := range group.Columns {
			if col.Checked {
				ids = append(ids, col.ID)
			}
		}
	}
	return ids
}

// Overlay returns the overlay model for the current column state.
// Grouping is global, so columns of a group that are not
// adjacent in the table are listed together.
func (c *ToggleColumns) Overlay() *Overlay {
	overlay := new(Overlay)
	if c.table == nil {
		return overlay
	}
	custom := make(map[*tabler.ColumnSpec]bool, len(c.custom))
	for _, col := range c.custom {
		custom[col] = true
	}
	groupIndex := make(map[string]int)
	for _, col := range c.toggleableColumns() {
		i, ok := groupIndex[col.GroupName]
		if !ok {
			i = len(overlay.Groups)
			groupIndex[col.GroupName] = i
			overlay.Groups = append(overlay.Groups, OverlayGroup{Name: col.GroupName})
		}
		id := columnID(col)
		formatter := c.options.Formatters[id]
		if formatter == nil {
			formatter = DefaultColumnFormatter
		}
		overlay.Groups[i].Columns = append(overlay.Groups[i].Columns, OverlayColumn{
			ID:      id,
			Label:   formatter(col),
			Checked: !col.Disabled,
			Custom:  custom[col],
		})
	}
	for i := range overlay.Groups {
		group := &overlay.Groups[i]
		if group.Name == "" {
			continue
		}
		formatter := c.options.GroupFormatters[group.Name]
		if formatter == nil {
			formatter = DefaultGroupFormatter
		}
		group.Label = formatter(group.Name)
		all := true
		for _, col := range group.Columns {
			group.Checked = group.Checked || col.Checked
			all = all && col.Checked
		}
		group.PartiallySelected = !all
	}
	return overlay
}

// HTML renders the overlay as form.
// Element IDs are unique within the returned markup.
func (o *Overlay) HTML() template.HTML {
	var (
		lines  []string
		nextID int
	)
	uniqueID := func(prefix string) string {
		nextID++
		return prefix + strconv.Itoa(nextID)
	}
	for _, group := range o.Groups {
		if group.Name != "" {
			id := uniqueID("toggleColumnsUIGroup")
			input := tabler.Attrs{
				{Name: "name", Value: "columnGroup"},
				{Name: "type", Value: "checkbox"},
				{Name: "id", Value: id},
			}
			if group.PartiallySelected {
				input = input.AddClass("partiallySelected")
			}
			open := strings.TrimSuffix(string(tabler.OpenTag("input", input)), ">")
			if group.Checked {
				open += " checked"
			}
			lines = append(lines,
				`<li class="columnGroup closed">`,
				`<a href="#" class="opener">+</a>`,
				open+` />`,
				`<label for="`+id+`">`+string(group.Label)+`</label>`,
				`<ul>`,
			)
		}
		for _, col := range group.Columns {
			id := uniqueID("toggleColumnsUIValue")
			checked := ""
			if col.Checked {
				checked = " checked"
			}
			lines = append(lines, `<li><input name="column" type="checkbox" value="`+
				string(tabler.Escape(col.ID))+`" id="`+id+`"`+checked+` />`+
				`<label for="`+id+`">`+string(col.Label)+`</label></li>`)
		}
		if group.Name != "" {
			lines = append(lines, `</ul>`, `</li>`)
		}
	}
	markup := []string{
		`<div class="toggleColumnsUI">`,
		`<h1>Show / Hide Columns</h1>`,
		`<form>`,
		`<fieldset>`,
		`<ul class="columns">`,
	}
	markup = append(markup, lines...)
	markup = append(markup,
		`</ul>`,
		`</fieldset>`,
		`<p><button class="apply">Apply</button><a href="#" class="cancel">Cancel</a></p>`,
		`</form>`,
		`</div>`,
	)
	return template.HTML(strings.Join(markup, "\n")) //#nosec G203
}
