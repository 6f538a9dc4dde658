// Package pager implements pagination for tabler tables.
//
// The Pager plugin contributes the current page to the fetch options,
// slices the fetched data to the current page if the data holds the
// complete dataset, and renders a list of page links into the table foot.
// The PageSize and JumpToPage plugins extend the rendered pager
// and require the Pager to be attached first.
package pager

import (
	"context"
	"fmt"
	"html/template"
	"sync"

	tabler "github.com/domonda/go-tabler"
)

const PluginName = "pager"

// DefaultPageSize is used if Options.PageSize is zero.
const DefaultPageSize = 20

// PageFunc reduces data to the requested page.
// It must call done exactly once.
type PageFunc func(ctx context.Context, data *tabler.Data, page tabler.PageOptions, done tabler.FetchDone)

type Options struct {
	PageSize    int `yaml:"pageSize"`
	CurrentPage int `yaml:"currentPage"`
	// TotalResults is used by RenderStandalone for nil data.
	TotalResults    int    `yaml:"totalResults"`
	HideWhenOnePage bool   `yaml:"hideWhenOnePage"`
	CSSClass        string `yaml:"cssClass"`

	// PageFunc defaults to DefaultPage.
	PageFunc PageFunc `yaml:"-"`
}

func (o *Options) Validate() error {
	if o.PageSize < 0 {
		return fmt.Errorf("negative page size %d: %w", o.PageSize, tabler.ErrInvalidOptions)
	}
	if o.CurrentPage < 0 {
		return fmt.Errorf("negative current page %d: %w", o.CurrentPage, tabler.ErrInvalidOptions)
	}
	if o.TotalResults < 0 {
		return fmt.Errorf("negative total results %d: %w", o.TotalResults, tabler.ErrInvalidOptions)
	}
	return nil
}

// Pager is the pagination plugin.
// It can also be used without table via RenderStandalone.
type Pager struct {
	options Options

	mtx   sync.Mutex
	state State

	table    *tabler.Table
	replaced tabler.Pipeline
	renderer Renderer
}

func New(options Options) *Pager {
	if options.PageSize == 0 {
		options.PageSize = DefaultPageSize
	}
	if options.PageFunc == nil {
		options.PageFunc = DefaultPage
	}
	return &Pager{
		options: options,
		state: State{
			CurrentPage:  options.CurrentPage,
			PageSize:     options.PageSize,
			TotalResults: options.TotalResults,
		},
		renderer: baseRenderer{},
	}
}

// Of returns the Pager attached to t or nil.
func Of(t *tabler.Table) *Pager {
	p, _ := t.Plugin(PluginName).(*Pager)
	return p
}

func (p *Pager) PluginName() string { return PluginName }

func (p *Pager) Attach(t *tabler.Table) error {
	if err := p.options.Validate(); err != nil {
		return err
	}
	p.table = t
	p.replaced = t.Decorate(func(next tabler.Pipeline) tabler.Pipeline {
		return pipeline{Pipeline: next, pager: p}
	})
	return nil
}

func (p *Pager) Detach(t *tabler.Table) error {
	t.Restore(p.replaced)
	p.replaced = nil
	p.table = nil
	return nil
}

func (p *Pager) Options() *Options { return &p.options }

// State returns the paging state of the last render.
func (p *Pager) State() State {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.state
}

func (p *Pager) CurrentPage() int { return p.State().CurrentPage }

func (p *Pager) PageSize() int { return p.State().PageSize }

func (p *Pager) TotalPages() int { return p.State().TotalPages() }

// UpdatePaging sets the current page and the page size if it is not zero,
// renders the table and triggers tabler.EventPaged.
func (p *Pager) UpdatePaging(ctx context.Context, page tabler.PageOptions) error {
	if page.CurrentPage < 0 || page.PageSize < 0 {
		return fmt.Errorf("invalid paging %+v: %w", page, tabler.ErrInvalidOptions)
	}
	p.mtx.Lock()
	p.state.CurrentPage = page.CurrentPage
	if page.PageSize > 0 {
		p.state.PageSize = page.PageSize
	}
	paged := tabler.PagedEvent{CurrentPage: p.state.CurrentPage, PageSize: p.state.PageSize}
	p.mtx.Unlock()

	if p.table == nil {
		return nil
	}
	if err := p.table.Render(ctx); err != nil {
		return err
	}
	p.table.Trigger(tabler.EventPaged, paged)
	return nil
}

// GoTo renders the zero based page.
func (p *Pager) GoTo(ctx context.Context, page int) error {
	return p.UpdatePaging(ctx, tabler.PageOptions{CurrentPage: page})
}

func (p *Pager) pageOptions() tabler.PageOptions {
	state := p.State()
	return tabler.PageOptions{CurrentPage: state.CurrentPage, PageSize: state.PageSize}
}

// setTotalResults stores the total of the rendered data
// and returns the updated state.
func (p *Pager) setTotalResults(total int) State {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.state.TotalResults = total
	return p.state
}

// DefaultPage slices data to the page if it holds the complete
// dataset, else data is passed through as already sliced page.
func DefaultPage(ctx context.Context, data *tabler.Data, page tabler.PageOptions, done tabler.FetchDone) {
	if data == nil || data.Items == nil || page.PageSize <= 0 {
		done(data, nil)
		return
	}
	total := data.Total()
	if len(data.Items) != total {
		done(data, nil)
		return
	}
	start := min(page.CurrentPage*page.PageSize, total)
	end := min(start+page.PageSize, total)
	items := make([]tabler.Row, end-start)
	copy(items, data.Items[start:end])
	done(&tabler.Data{Items: items, TotalResults: total}, nil)
}

type pipeline struct {
	tabler.Pipeline
	pager *Pager
}

func (p pipeline) FetchOptions(t *tabler.Table) tabler.FetchOptions {
	opts := p.Pipeline.FetchOptions(t)
	page := p.pager.pageOptions()
	opts.Page = &page
	return opts
}

func (p pipeline) Paginate(ctx context.Context, t *tabler.Table, data *tabler.Data, opts tabler.FetchOptions, done tabler.FetchDone) {
	p.Pipeline.Paginate(ctx, t, data, opts, func(data *tabler.Data, err error) {
		if err != nil {
			done(nil, err)
			return
		}
		page := p.pager.pageOptions()
		if opts.Page != nil {
			page = *opts.Page
		}
		p.pager.options.PageFunc(ctx, data, page, done)
	})
}

func (p pipeline) RenderFoot(t *tabler.Table, data *tabler.Data, cols []*tabler.ColumnSpec) template.HTML {
	return p.Pipeline.RenderFoot(t, data, cols) + p.pager.renderer.RenderPager(p.pager, t, data, cols)
}
