package tabler

import (
	"context"
	"html/template"
)

// Pipeline is the set of decoratable operations of a Table.
//
// Every operation receives the Table as first argument
// so that decorated operations always call through
// the outermost implementation via Table.Pipeline.
//
// Plugins decorate operations by embedding the replaced
// Pipeline in a struct and overriding the methods they change:
//
//	type pipeline struct {
//		tabler.Pipeline
//	}
//
//	func (p pipeline) RenderFoot(t *tabler.Table, data *tabler.Data, cols []*tabler.ColumnSpec) template.HTML {
//		return p.Pipeline.RenderFoot(t, data, cols) + "..."
//	}
type Pipeline interface {
	// AddToSpec adds column specs to the registry of the table.
	AddToSpec(t *Table, specs []*ColumnSpec) error
	// Load replaces the loaded data of the table.
	Load(t *Table, rows []Row)

	// FetchOptions collects the options passed to Fetch.
	FetchOptions(t *Table) FetchOptions
	// Fetch acquires raw data.
	Fetch(ctx context.Context, t *Table, opts FetchOptions, done FetchDone)
	// Paginate reduces fetched data to the displayed page.
	Paginate(ctx context.Context, t *Table, data *Data, opts FetchOptions, done FetchDone)

	// Render runs a complete render cycle
	// of FetchOptions, Fetch, Paginate and RenderTable.
	Render(ctx context.Context, t *Table) error
	// RenderTable renders the head, body and foot of data
	// and commits them to the surface of the table.
	RenderTable(ctx context.Context, t *Table, data *Data) error

	RenderHead(t *Table, data *Data, cols []*ColumnSpec) template.HTML
	RenderBody(t *Table, data *Data, cols []*ColumnSpec) template.HTML
	RenderFoot(t *Table, data *Data, cols []*ColumnSpec) template.HTML

	RenderHeadTr(t *Table) template.HTML
	RenderBodyTr(t *Table, row Row, index int) template.HTML
	RenderFootTr(t *Table) template.HTML

	RenderCell(t *Table, row Row, col *ColumnSpec, index int) template.HTML
	FormatValue(t *Table, row Row, col *ColumnSpec, index int) template.HTML

	MakeColumnAttrs(t *Table, col *ColumnSpec) Attrs
	MakeHeaderAttrs(t *Table, col *ColumnSpec) Attrs
}

// Plugin extends a Table by decorating its Pipeline.
type Plugin interface {
	// PluginName returns the unique name
	// the plugin is registered under.
	PluginName() string
	// Attach wires the plugin into the table.
	// It must not decorate anything if it returns an error.
	Attach(t *Table) error
}

// Detacher is implemented by plugins
// that can undo their Attach.
type Detacher interface {
	Detach(t *Table) error
}
