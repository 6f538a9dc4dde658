package pager

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabler "github.com/domonda/go-tabler"
)

func TestPageSize(t *testing.T) {
	ctx := context.Background()

	tbl := newTable(t, numberRows(250))
	require.ErrorIs(t, tbl.AddPlugin(NewPageSize(PageSizeOptions{})), tabler.ErrMissingDependency)

	p := New(Options{CurrentPage: 3})
	ps := NewPageSize(PageSizeOptions{})
	tbl = newTable(t, numberRows(250), p, ps)
	assert.Same(t, ps, PageSizeOf(tbl))

	require.NoError(t, tbl.Render(ctx))
	foot := string(tbl.Foot())
	require.Contains(t, foot, `<p class="pageSize">`)
	assert.Regexp(t, regexp.MustCompile(`<span>items / page</span></p></td>`), foot)
	assert.Contains(t, foot, `<option value="20" selected>20</option>`)
	assert.Contains(t, foot, `<option value="50">50</option>`)
	assert.Less(t, strings.Index(foot, "</ol>"), strings.Index(foot, `<p class="pageSize">`))

	var paged []tabler.PagedEvent
	tbl.On(tabler.EventPaged, func(payload any) { paged = append(paged, payload.(tabler.PagedEvent)) })
	require.NoError(t, ps.Select(ctx, 50))
	assert.Equal(t, []tabler.PagedEvent{{CurrentPage: 0, PageSize: 50}}, paged)
	assert.Len(t, tbl.Displayed().Items, 50)
	assert.Contains(t, string(tbl.Foot()), `<option value="50" selected>50</option>`)

	require.ErrorIs(t, ps.Select(ctx, 0), tabler.ErrInvalidOptions)
	require.ErrorIs(t, tbl.AddPlugin(NewPageSize(PageSizeOptions{Sizes: []int{0}})), tabler.ErrDuplicatePlugin)
}

func TestPageSize_Options(t *testing.T) {
	opts := PageSizeOptions{Sizes: []int{10, -1}}
	require.ErrorIs(t, opts.Validate(), tabler.ErrInvalidOptions)

	tbl := newTable(t, numberRows(30), New(Options{PageSize: 10}), NewPageSize(PageSizeOptions{
		Sizes:      []int{10, 25},
		BeforeText: "Display",
		AfterText:  "rows",
	}))
	require.NoError(t, tbl.Render(context.Background()))
	foot := string(tbl.Foot())
	assert.Contains(t, foot, "Display</label>")
	assert.Contains(t, foot, "<span>rows</span>")
	assert.Contains(t, foot, `<option value="10" selected>10</option>`)
	assert.NotContains(t, foot, `value="100"`)
}

func TestJumpToPage(t *testing.T) {
	ctx := context.Background()

	tbl := newTable(t, numberRows(250))
	require.ErrorIs(t, tbl.AddPlugin(NewJumpToPage(JumpToPageOptions{})), tabler.ErrMissingDependency)

	p := New(Options{})
	j := NewJumpToPage(JumpToPageOptions{})
	tbl = newTable(t, numberRows(250), p, j)
	require.NoError(t, tbl.Render(ctx))

	foot := string(tbl.Foot())
	assert.Contains(t, foot, "</ol>"+`<p class="jumpToPage">`)
	assert.Contains(t, foot, "<button>Go</button></p>")
	assert.NotContains(t, foot, "invalid")

	tests := []struct {
		input    string
		wantErr  error
		wantPage int
	}{
		{input: "", wantPage: 0},
		{input: "3", wantPage: 2},
		{input: " 7 ", wantPage: 6},
		{input: "100", wantPage: 12},
		{input: "abc", wantErr: ErrInvalidPage, wantPage: 12},
		{input: "0", wantErr: ErrInvalidPage, wantPage: 12},
		{input: "-3", wantErr: ErrInvalidPage, wantPage: 12},
	}
	for _, tt := range tests {
		err := j.Jump(ctx, tt.input)
		if tt.wantErr != nil {
			require.ErrorIs(t, err, tt.wantErr, "input %q", tt.input)
			assert.True(t, j.Invalid(), "input %q", tt.input)
		} else {
			require.NoError(t, err, "input %q", tt.input)
		}
		assert.Equal(t, tt.wantPage, p.CurrentPage(), "input %q", tt.input)
	}

	require.NoError(t, tbl.Render(ctx))
	assert.Contains(t, string(tbl.Foot()), `type="text" class="invalid" />`)

	require.NoError(t, j.Jump(ctx, "1"))
	assert.False(t, j.Invalid())
	assert.NotContains(t, string(tbl.Foot()), "invalid")
}

func TestPagerPlugins_Detach(t *testing.T) {
	ctx := context.Background()
	p := New(Options{})
	tbl := newTable(t, numberRows(250), p, NewPageSize(PageSizeOptions{}), NewJumpToPage(JumpToPageOptions{}))
	require.NoError(t, tbl.Render(ctx))
	require.Contains(t, string(tbl.Foot()), "jumpToPage")

	require.NoError(t, tbl.RemovePlugin(JumpToPagePluginName))
	require.NoError(t, tbl.RemovePlugin(PageSizePluginName))
	require.NoError(t, tbl.Render(ctx))
	foot := string(tbl.Foot())
	assert.NotContains(t, foot, "jumpToPage")
	assert.NotContains(t, foot, "pageSize")
	assert.Contains(t, foot, `<ol class="pager">`)
}
