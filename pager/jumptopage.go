package pager

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	tabler "github.com/domonda/go-tabler"
)

const JumpToPagePluginName = "jumpToPage"

// ErrInvalidPage is returned by JumpToPage.Jump
// for input that is not a page number.
var ErrInvalidPage = errors.New("invalid page number")

type JumpToPageOptions struct {
	LabelText  string `yaml:"labelText"`
	ButtonText string `yaml:"buttonText"`
}

// JumpToPage adds a page number input to the pager.
type JumpToPage struct {
	options  JumpToPageOptions
	pager    *Pager
	replaced Renderer
	invalid  bool
}

func NewJumpToPage(options JumpToPageOptions) *JumpToPage {
	if options.LabelText == "" {
		options.LabelText = "Jump to page"
	}
	if options.ButtonText == "" {
		options.ButtonText = "Go"
	}
	return &JumpToPage{options: options}
}

// JumpToPageOf returns the JumpToPage plugin attached to t or nil.
func JumpToPageOf(t *tabler.Table) *JumpToPage {
	j, _ := t.Plugin(JumpToPagePluginName).(*JumpToPage)
	return j
}

func (j *JumpToPage) PluginName() string { return JumpToPagePluginName }

func (j *JumpToPage) Attach(t *tabler.Table) error {
	pager := Of(t)
	if pager == nil {
		return fmt.Errorf("%s plugin requires the %s plugin: %w", JumpToPagePluginName, PluginName, tabler.ErrMissingDependency)
	}
	j.pager = pager
	j.replaced = pager.Decorate(func(next Renderer) Renderer {
		return RendererFunc(func(p *Pager, t *tabler.Table, data *tabler.Data, cols []*tabler.ColumnSpec) template.HTML {
			html := string(next.RenderPager(p, t, data, cols))
			return template.HTML(strings.Replace(html, "</ol>", "</ol>"+string(j.render()), 1)) //#nosec G203
		})
	})
	return nil
}

func (j *JumpToPage) Detach(t *tabler.Table) error {
	j.pager.Restore(j.replaced)
	j.pager = nil
	j.replaced = nil
	return nil
}

// Invalid returns true if the last Jump input was not a page number.
func (j *JumpToPage) Invalid() bool { return j.invalid }

// Jump renders the page with the one based page number input.
// Numbers beyond the last page jump to the last page.
// Empty input is ignored, input that is not a number
// or smaller than one marks the input as invalid
// and returns ErrInvalidPage.
func (j *JumpToPage) Jump(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	page, err := strconv.Atoi(input)
	if err != nil || page < 1 {
		j.invalid = true
		return fmt.Errorf("%q: %w", input, ErrInvalidPage)
	}
	j.invalid = false
	if total := j.pager.TotalPages(); total > 0 {
		page = min(page, total)
	}
	return j.pager.GoTo(ctx, page-1)
}

func (j *JumpToPage) render() template.HTML {
	id := uniqueID("tabler-jumpToPage")
	class := ""
	if j.invalid {
		class = ` class="invalid"`
	}
	return template.HTML(strings.Join([]string{ //#nosec G203
		`<p class="jumpToPage">`,
		`<label for="` + id + `">` + template.HTMLEscapeString(j.options.LabelText) + `</label>`,
		`<input id="` + id + `" type="text"` + class + ` />`,
		`<button>` + template.HTMLEscapeString(j.options.ButtonText) + `</button></p>`,
	}, "\n"))
}
