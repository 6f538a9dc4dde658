package pager

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"sync/atomic"

	tabler "github.com/domonda/go-tabler"
)

const PageSizePluginName = "pageSize"

var idCounter atomic.Uint64

func uniqueID(prefix string) string {
	return prefix + strconv.FormatUint(idCounter.Add(1), 10)
}

type PageSizeOptions struct {
	// Sizes defaults to 20, 50, 100
	Sizes      []int  `yaml:"sizes"`
	BeforeText string `yaml:"beforeText"`
	AfterText  string `yaml:"afterText"`
}

func (o *PageSizeOptions) Validate() error {
	for _, size := range o.Sizes {
		if size <= 0 {
			return fmt.Errorf("page size %d: %w", size, tabler.ErrInvalidOptions)
		}
	}
	return nil
}

// PageSize adds a page size select to the pager.
type PageSize struct {
	options  PageSizeOptions
	pager    *Pager
	replaced Renderer
}

func NewPageSize(options PageSizeOptions) *PageSize {
	if len(options.Sizes) == 0 {
		options.Sizes = []int{20, 50, 100}
	}
	if options.BeforeText == "" {
		options.BeforeText = "Show"
	}
	if options.AfterText == "" {
		options.AfterText = "items / page"
	}
	return &PageSize{options: options}
}

// PageSizeOf returns the PageSize plugin attached to t or nil.
func PageSizeOf(t *tabler.Table) *PageSize {
	p, _ := t.Plugin(PageSizePluginName).(*PageSize)
	return p
}

func (ps *PageSize) PluginName() string { return PageSizePluginName }

func (ps *PageSize) Attach(t *tabler.Table) error {
	pager := Of(t)
	if pager == nil {
		return fmt.Errorf("%s plugin requires the %s plugin: %w", PageSizePluginName, PluginName, tabler.ErrMissingDependency)
	}
	if err := ps.options.Validate(); err != nil {
		return err
	}
	ps.pager = pager
	ps.replaced = pager.Decorate(func(next Renderer) Renderer {
		return RendererFunc(func(p *Pager, t *tabler.Table, data *tabler.Data, cols []*tabler.ColumnSpec) template.HTML {
			html := string(next.RenderPager(p, t, data, cols))
			return template.HTML(strings.Replace(html, "</td>", string(ps.render())+"</td>", 1)) //#nosec G203
		})
	})
	return nil
}

func (ps *PageSize) Detach(t *tabler.Table) error {
	ps.pager.Restore(ps.replaced)
	ps.pager = nil
	ps.replaced = nil
	return nil
}

// Select renders the first page with the passed page size.
func (ps *PageSize) Select(ctx context.Context, size int) error {
	if size <= 0 {
		return fmt.Errorf("page size %d: %w", size, tabler.ErrInvalidOptions)
	}
	return ps.pager.UpdatePaging(ctx, tabler.PageOptions{CurrentPage: 0, PageSize: size})
}

func (ps *PageSize) render() template.HTML {
	id := uniqueID("tabler-pageSize")
	lines := []string{
		`<p class="pageSize">`,
		`<label for="` + id + `">` + template.HTMLEscapeString(ps.options.BeforeText) + `</label>`,
		`<select id="` + id + `">`,
	}
	for _, size := range ps.options.Sizes {
		s := strconv.Itoa(size)
		selected := ""
		if size == ps.pager.PageSize() {
			selected = " selected"
		}
		lines = append(lines, `<option value="`+s+`"`+selected+`>`+s+`</option>`)
	}
	lines = append(lines,
		`</select>`,
		`<span>`+template.HTMLEscapeString(ps.options.AfterText)+`</span></p>`,
	)
	return template.HTML(strings.Join(lines, "\n")) //#nosec G203
}
