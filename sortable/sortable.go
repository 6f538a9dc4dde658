// Package sortable adds sortable columns to tabler tables.
package sortable

import (
	"context"
	"fmt"
	"html/template"

	tabler "github.com/domonda/go-tabler"
)

const PluginName = "sortable"

const (
	ClassSortable   = "sortable"
	ClassSortedAsc  = "sorted-asc"
	ClassSortedDesc = "sorted-desc"
)

// Sorter sorts data.Items in place.
type Sorter func(ctx context.Context, data *tabler.Data, field string, dir tabler.SortDirection) error

type Options struct {
	// Field and Direction are the initial sort order.
	Field     string              `yaml:"field"`
	Direction tabler.SortDirection `yaml:"direction"`

	// Sorter defaults to DefaultSort.
	Sorter Sorter `yaml:"-"`
}

// Sortable is the sorting plugin.
//
// Columns with ColumnSpec.Sortable get the class "sortable"
// and a header link carrying the sort key. The sort field and
// direction are passed to the Fetcher in FetchOptions.Sort and
// the fetched items are sorted with Options.Sorter.
type Sortable struct {
	options   Options
	field     string
	dir       tabler.SortDirection
	table     *tabler.Table
	replaced  tabler.Pipeline
	decorated map[*tabler.ColumnSpec]original
}

type original struct {
	name            string
	className       string
	headerClassName string
	headerFormatter tabler.HeaderFormatterFunc
}

func New(options Options) *Sortable {
	if options.Sorter == nil {
		options.Sorter = DefaultSort
	}
	return &Sortable{
		options: options,
		field:   options.Field,
		dir:     tabler.ParseSortDirection(string(options.Direction)),
	}
}

// Of returns the Sortable attached to t or nil.
func Of(t *tabler.Table) *Sortable {
	s, _ := t.Plugin(PluginName).(*Sortable)
	return s
}

func (s *Sortable) PluginName() string { return PluginName }

func (s *Sortable) Attach(t *tabler.Table) error {
	s.table = t
	s.decorated = make(map[*tabler.ColumnSpec]original)
	for _, col := range t.Columns().All() {
		s.decorateColumn(col)
	}
	s.replaced = t.Decorate(func(next tabler.Pipeline) tabler.Pipeline {
		return pipeline{Pipeline: next, sortable: s}
	})
	return nil
}

// Detach restores the pipeline and the decorated column specs.
// Sort classes added by rendering are removed.
func (s *Sortable) Detach(t *tabler.Table) error {
	t.Restore(s.replaced)
	for col, orig := range s.decorated {
		col.Name = orig.name
		col.ClassName = orig.className
		col.HeaderClassName = orig.headerClassName
		col.HeaderFormatter = orig.headerFormatter
	}
	s.decorated = nil
	s.replaced = nil
	s.table = nil
	return nil
}

// Field returns the current sort field.
func (s *Sortable) Field() string { return s.field }

// Direction returns the current sort direction.
func (s *Sortable) Direction() tabler.SortDirection { return s.dir }

// SortBy sorts the table by field in direction dir,
// renders it and triggers tabler.EventSorted.
func (s *Sortable) SortBy(ctx context.Context, field string, dir tabler.SortDirection) error {
	var (
		col *tabler.ColumnSpec
		err error
	)
	s.table.Synchronized(func() {
		col, err = s.table.GetField(tabler.MatchFunc(func(col *tabler.ColumnSpec) bool {
			return col.Field == field && col.Sortable
		}))
		if err == nil && col != nil {
			s.field = field
			s.dir = tabler.ParseSortDirection(string(dir))
		}
	})
	if err != nil {
		return err
	}
	if col == nil {
		return fmt.Errorf("no sortable column for field %q: %w", field, tabler.ErrInvalidOptions)
	}
	if err := s.table.Render(ctx); err != nil {
		return err
	}
	s.table.Trigger(tabler.EventSorted, tabler.SortedEvent{Field: s.field, Direction: s.dir})
	return nil
}

// Toggle sorts by field in the opposite direction of its current
// sort state, columns that are not sorted yet are sorted descending.
func (s *Sortable) Toggle(ctx context.Context, field string) error {
	dir := tabler.SortDescending
	s.table.Synchronized(func() {
		for _, col := range s.table.Columns().All() {
			if col.Field != field || !col.Sortable {
				continue
			}
			if tabler.HasClassName(col.HeaderClassName, ClassSortedDesc) {
				dir = tabler.SortAscending
			}
			break
		}
	})
	return s.SortBy(ctx, field, dir)
}

func (s *Sortable) decorateColumn(col *tabler.ColumnSpec) {
	if !col.Sortable {
		return
	}
	if _, ok := s.decorated[col]; ok {
		return
	}
	s.decorated[col] = original{
		name:            col.Name,
		className:       col.ClassName,
		headerClassName: col.HeaderClassName,
		headerFormatter: col.HeaderFormatter,
	}
	if col.Name == "" && col.Title == "" {
		col.Name = col.Field
	}
	headerClassName := col.HeaderClassName
	if headerClassName == "" {
		headerClassName = col.ClassName
	}
	col.HeaderClassName = tabler.JoinClassNames(headerClassName, ClassSortable)
	col.ClassName = tabler.JoinClassNames(col.ClassName, ClassSortable)

	previous := col.HeaderFormatter
	col.HeaderFormatter = func(t *tabler.Table, col *tabler.ColumnSpec, title template.HTML) template.HTML {
		html := `<a href class="sort" data-sort-key="` + tabler.Escape(col.Field) + `">` + title + `</a>`
		if previous != nil {
			html = previous(t, col, html)
		}
		return html
	}
}

// updateColumnClasses moves the sorted class to the sorted column.
func (s *Sortable) updateColumnClasses(t *tabler.Table) {
	var sorted *tabler.ColumnSpec
	for _, col := range t.Columns().All() {
		col.ClassName = tabler.RemoveClassNames(col.ClassName, ClassSortedAsc, ClassSortedDesc)
		col.HeaderClassName = tabler.RemoveClassNames(col.HeaderClassName, ClassSortedAsc, ClassSortedDesc)
		if s.field != "" && col.Field == s.field && col.Sortable && sorted == nil {
			sorted = col
		}
	}
	if sorted == nil {
		return
	}
	class := "sorted-" + string(s.dir)
	sorted.ClassName = tabler.JoinClassNames(sorted.ClassName, class)
	sorted.HeaderClassName = tabler.JoinClassNames(sorted.HeaderClassName, class)
}

type pipeline struct {
	tabler.Pipeline
	sortable *Sortable
}

func (p pipeline) AddToSpec(t *tabler.Table, specs []*tabler.ColumnSpec) error {
	if err := p.Pipeline.AddToSpec(t, specs); err != nil {
		return err
	}
	for _, col := range specs {
		p.sortable.decorateColumn(col)
	}
	return nil
}

func (p pipeline) FetchOptions(t *tabler.Table) tabler.FetchOptions {
	opts := p.Pipeline.FetchOptions(t)
	if p.sortable.field != "" {
		opts.Sort = &tabler.SortOptions{Field: p.sortable.field, Direction: p.sortable.dir}
	}
	return opts
}

func (p pipeline) Fetch(ctx context.Context, t *tabler.Table, opts tabler.FetchOptions, done tabler.FetchDone) {
	p.Pipeline.Fetch(ctx, t, opts, func(data *tabler.Data, err error) {
		if err != nil || opts.Sort == nil || data == nil {
			done(data, err)
			return
		}
		if err := p.sortable.options.Sorter(ctx, data, opts.Sort.Field, opts.Sort.Direction); err != nil {
			done(nil, fmt.Errorf("sort by %q: %w", opts.Sort.Field, err))
			return
		}
		done(data, nil)
	})
}

func (p pipeline) RenderTable(ctx context.Context, t *tabler.Table, data *tabler.Data) error {
	p.sortable.updateColumnClasses(t)
	return p.Pipeline.RenderTable(ctx, t, data)
}
