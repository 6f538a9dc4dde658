// Package infinitable renders all pages up to the current page
// of the pager plugin and a "Loading more..." foot row
// while not all results are fetched.
package infinitable

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
	"sync"

	tabler "github.com/domonda/go-tabler"
	"github.com/domonda/go-tabler/pager"
)

const PluginName = "infiniTable"

// InfiniTable accumulates the pages fetched through the pager.
// It must be attached after the pager plugin.
type InfiniTable struct {
	table    *tabler.Table
	pager    *pager.Pager
	replaced tabler.Pipeline

	mtx     sync.Mutex
	pages   map[int][]tabler.Row
	hasMore bool
}

func New() *InfiniTable {
	return &InfiniTable{}
}

// Of returns the InfiniTable attached to t or nil.
func Of(t *tabler.Table) *InfiniTable {
	i, _ := t.Plugin(PluginName).(*InfiniTable)
	return i
}

func (it *InfiniTable) PluginName() string { return PluginName }

func (it *InfiniTable) Attach(t *tabler.Table) error {
	p := pager.Of(t)
	if p == nil {
		return fmt.Errorf("%s plugin requires the %s plugin: %w", PluginName, pager.PluginName, tabler.ErrMissingDependency)
	}
	it.table = t
	it.pager = p
	it.mtx.Lock()
	it.pages = make(map[int][]tabler.Row)
	it.mtx.Unlock()
	it.replaced = t.Decorate(func(next tabler.Pipeline) tabler.Pipeline {
		return pipeline{Pipeline: next, infini: it}
	})
	return nil
}

func (it *InfiniTable) Detach(t *tabler.Table) error {
	t.Restore(it.replaced)
	it.replaced = nil
	it.table = nil
	it.pager = nil
	it.mtx.Lock()
	it.pages = nil
	it.hasMore = false
	it.mtx.Unlock()
	return nil
}

// HasMore returns true if the last render
// did not include all results.
func (it *InfiniTable) HasMore() bool {
	it.mtx.Lock()
	defer it.mtx.Unlock()
	return it.hasMore
}

// Reset drops all accumulated pages.
func (it *InfiniTable) Reset() {
	it.mtx.Lock()
	defer it.mtx.Unlock()
	clear(it.pages)
	it.hasMore = false
}

// LoadMore renders the next page of the pager
// appended to the already rendered pages.
// It does nothing if all results have been rendered.
func (it *InfiniTable) LoadMore(ctx context.Context) error {
	if it.pager == nil {
		return fmt.Errorf("%s plugin not attached: %w", PluginName, tabler.ErrMissingDependency)
	}
	if !it.HasMore() {
		return nil
	}
	return it.pager.GoTo(ctx, it.pager.CurrentPage()+1)
}

// accumulate stores data as the current page of the pager
// and returns the rows of all pages up to the current one.
func (it *InfiniTable) accumulate(data *tabler.Data) *tabler.Data {
	current := it.pager.CurrentPage()

	it.mtx.Lock()
	defer it.mtx.Unlock()
	if it.pages == nil {
		it.pages = make(map[int][]tabler.Row)
	}
	if current == 0 {
		clear(it.pages)
	}
	it.pages[current] = data.Items
	items := make([]tabler.Row, 0, len(data.Items)*(current+1))
	for page := 0; page <= current; page++ {
		items = append(items, it.pages[page]...)
	}
	merged := &tabler.Data{Items: items, TotalResults: data.Total()}
	it.hasMore = len(items) < merged.TotalResults
	return merged
}

func (it *InfiniTable) renderLoadingRow(cols []*tabler.ColumnSpec) template.HTML {
	return template.HTML(`<tr><td colspan="` + strconv.Itoa(len(cols)) + `"><span class="loading">Loading more...</span></td></tr>`) //#nosec G203
}

type pipeline struct {
	tabler.Pipeline
	infini *InfiniTable
}

func (p pipeline) Load(t *tabler.Table, rows []tabler.Row) {
	p.infini.Reset()
	p.Pipeline.Load(t, rows)
}

func (p pipeline) RenderTable(ctx context.Context, t *tabler.Table, data *tabler.Data) error {
	if data == nil || data.Items == nil {
		return p.Pipeline.RenderTable(ctx, t, data)
	}
	return p.Pipeline.RenderTable(ctx, t, p.infini.accumulate(data))
}

// RenderFoot replaces the foot including the pager.
func (p pipeline) RenderFoot(t *tabler.Table, data *tabler.Data, cols []*tabler.ColumnSpec) template.HTML {
	if !p.infini.HasMore() {
		return ""
	}
	return p.infini.renderLoadingRow(cols)
}
