package tabler

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"slices"
	"sync"

	"github.com/go-logr/logr"
)

// Options of a Table.
type Options struct {
	// ClassName is added to the class attribute of the table element.
	ClassName string
	// CellClassName is added to every body cell.
	CellClassName string
	// HeaderCellClassName is added to every header cell.
	HeaderCellClassName string

	HeadRowClassName string
	BodyRowClassName string
	FootRowClassName string

	// Fetch acquires the data to render.
	// If nil, then the data passed to Table.Load is rendered.
	Fetch Fetcher

	// Plugins are attached in order after the column specs were added.
	Plugins []Plugin

	// Logger defaults to logr.Discard()
	Logger logr.Logger

	// Template renders the table surface,
	// defaults to TableTemplate.
	Template *template.Template
}

// Table renders a column spec and a dataset as an HTML table
// through a Pipeline of decoratable operations.
type Table struct {
	options  Options
	log      logr.Logger
	columns  *Columns
	data     Data
	pipeline Pipeline
	events   eventHub

	plugins     map[string]Plugin
	pluginOrder []string

	// renderMtx serializes rendering and committing
	// of completed render cycles with Synchronized callers
	renderMtx sync.Mutex
	// generation of the render cycle holding renderMtx
	rendering uint64
	// recorded by the base RenderBody during a render cycle
	recording []renderedRow

	mtx        sync.Mutex
	generation uint64
	loading    bool
	displayed  *Data
	surface    surface
}

// New returns a Table with the passed column specs and options.
//
// If columns is nil, then a default column spec
// is derived from the keys of the first rendered data.
// The plugins of options are attached after the columns were added.
func New(columns []*ColumnSpec, options *Options) (*Table, error) {
	t := &Table{
		pipeline: basePipeline{},
		plugins:  make(map[string]Plugin),
	}
	if options != nil {
		t.options = *options
	}
	t.log = t.options.Logger
	if t.log.GetSink() == nil {
		t.log = logr.Discard()
	}
	if columns != nil {
		if err := t.AddToSpec(columns...); err != nil {
			return nil, err
		}
	}
	for _, p := range t.options.Plugins {
		if err := t.AddPlugin(p); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustNew returns the result of New or panics on an error.
func MustNew(columns []*ColumnSpec, options *Options) *Table {
	t, err := New(columns, options)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Options() *Options { return &t.options }

func (t *Table) Logger() logr.Logger { return t.log }

// Columns returns the column registry or nil
// if no column spec was added yet.
func (t *Table) Columns() *Columns { return t.columns }

// Data returns the data loaded by Load.
func (t *Table) Data() *Data { return &t.data }

// Displayed returns the data of the last committed render.
func (t *Table) Displayed() *Data {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.displayed
}

// Pipeline returns the outermost implementation of the decoratable operations.
func (t *Table) Pipeline() Pipeline { return t.pipeline }

// Decorate replaces the current Pipeline with wrap(current)
// and returns the replaced Pipeline for Restore.
func (t *Table) Decorate(wrap func(next Pipeline) Pipeline) (replaced Pipeline) {
	replaced = t.pipeline
	t.pipeline = wrap(replaced)
	return replaced
}

// Restore sets the Pipeline returned by Decorate.
// Decorations must be restored in reverse order.
func (t *Table) Restore(p Pipeline) {
	t.pipeline = p
}

// AddPlugin attaches p and registers it under its name.
func (t *Table) AddPlugin(p Plugin) error {
	name := p.PluginName()
	if name == "" {
		return fmt.Errorf("plugin %T has no name: %w", p, ErrInvalidOptions)
	}
	if _, exists := t.plugins[name]; exists {
		return fmt.Errorf("plugin %q: %w", name, ErrDuplicatePlugin)
	}
	var err error
	t.Synchronized(func() { err = p.Attach(t) })
	if err != nil {
		return fmt.Errorf("attach plugin %q: %w", name, err)
	}
	t.plugins[name] = p
	t.pluginOrder = append(t.pluginOrder, name)
	t.log.V(1).Info("attached plugin", "plugin", name)
	return nil
}

// Plugin returns the plugin registered under name or nil.
func (t *Table) Plugin(name string) Plugin {
	return t.plugins[name]
}

// PluginNames returns the names of the attached plugins in attach order.
func (t *Table) PluginNames() []string {
	return slices.Clone(t.pluginOrder)
}

// RemovePlugin detaches and unregisters the named plugin.
// Restoring decorations is only symmetric when plugins
// are removed in reverse attach order.
func (t *Table) RemovePlugin(name string) error {
	p, ok := t.plugins[name]
	if !ok {
		return nil
	}
	if d, ok := p.(Detacher); ok {
		var err error
		t.Synchronized(func() { err = d.Detach(t) })
		if err != nil {
			return fmt.Errorf("detach plugin %q: %w", name, err)
		}
	}
	delete(t.plugins, name)
	t.pluginOrder = slices.DeleteFunc(t.pluginOrder, func(n string) bool { return n == name })
	return nil
}

// Destroy detaches all plugins in reverse attach order,
// removes all event handlers and clears the surface.
func (t *Table) Destroy() error {
	var errs []error
	for i := len(t.pluginOrder) - 1; i >= 0; i-- {
		name := t.pluginOrder[i]
		if d, ok := t.plugins[name].(Detacher); ok {
			var err error
			t.Synchronized(func() { err = d.Detach(t) })
			if err != nil {
				errs = append(errs, fmt.Errorf("detach plugin %q: %w", name, err))
			}
		}
	}
	t.plugins = make(map[string]Plugin)
	t.pluginOrder = nil
	t.events.clear()

	t.mtx.Lock()
	t.generation++
	t.loading = false
	t.displayed = nil
	t.surface = surface{}
	t.mtx.Unlock()

	return errors.Join(errs...)
}

// On registers handler for event and returns
// a function that unregisters it again.
func (t *Table) On(event string, handler Handler) (off func()) {
	return t.events.on(event, handler)
}

// Trigger calls all handlers registered for event.
func (t *Table) Trigger(event string, payload any) {
	t.events.trigger(event, payload)
}

// AddToSpec adds column specs through the Pipeline.
func (t *Table) AddToSpec(specs ...*ColumnSpec) (err error) {
	t.Synchronized(func() {
		err = t.pipeline.AddToSpec(t, specs)
	})
	return err
}

// RemoveFromSpec removes the first column spec matching m.
// Nothing is removed if there is no match.
func (t *Table) RemoveFromSpec(m Matcher) (col *ColumnSpec, err error) {
	t.Synchronized(func() {
		col, err = t.columns.Remove(m)
	})
	return col, err
}

// Synchronized calls fn while no completed render cycle
// is rendering or committing its markup.
// Plugin actions use it to modify column specs or other
// state that is read while rendering.
// fn must not call Render, AddToSpec, RemoveFromSpec or Synchronized.
func (t *Table) Synchronized(fn func()) {
	t.renderMtx.Lock()
	defer t.renderMtx.Unlock()
	fn()
}

// GetField returns the first column spec matching m or nil.
func (t *Table) GetField(m Matcher) (*ColumnSpec, error) {
	return t.columns.Find(m)
}

// Load replaces the loaded rows through the Pipeline.
func (t *Table) Load(rows []Row) {
	t.pipeline.Load(t, rows)
}

// Render runs a render cycle through the Pipeline.
//
// If the fetch completes synchronously, then any error
// of the cycle is returned. Errors of asynchronous fetches
// are reported with EventRendered.
func (t *Table) Render(ctx context.Context) error {
	return t.pipeline.Render(ctx, t)
}

// FormatValue formats a cell value through the Pipeline.
func (t *Table) FormatValue(row Row, col *ColumnSpec, index int) template.HTML {
	return t.pipeline.FormatValue(t, row, col, index)
}

// Loading returns true while a fetch is outstanding.
func (t *Table) Loading() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.loading
}

func (t *Table) beginRender() (generation uint64) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.generation++
	t.loading = true
	return t.generation
}

func (t *Table) isCurrentRender(generation uint64) bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return generation == t.generation
}

// endRender returns nil without side effects
// if generation was superseded by a newer render.
func (t *Table) endRender(generation uint64, err error) error {
	t.mtx.Lock()
	if generation != t.generation {
		t.mtx.Unlock()
		t.log.V(1).Info("discarding stale render", "generation", generation, "error", err)
		return nil
	}
	t.loading = false
	t.mtx.Unlock()

	if err != nil {
		t.log.Error(err, "render failed", "generation", generation)
	} else {
		t.log.V(1).Info("rendered", "generation", generation)
	}
	t.Trigger(EventRendered, RenderedEvent{Err: err})
	return err
}

func (t *Table) addDefaultSpec(rows []Row) error {
	fields := FieldsOfRows(rows)
	specs := make([]*ColumnSpec, len(fields))
	for i, field := range fields {
		specs[i] = &ColumnSpec{Field: field}
	}
	if t.columns == nil {
		t.columns = new(Columns)
	}
	// called while rendering with renderMtx locked
	return t.pipeline.AddToSpec(t, specs)
}
