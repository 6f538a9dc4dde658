package tabler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns_Add(t *testing.T) {
	tests := []struct {
		name    string
		specs   []*ColumnSpec
		wantIDs []string
		wantErr error
	}{
		{name: "id from field", specs: []*ColumnSpec{{Field: "a"}}, wantIDs: []string{"a"}},
		{name: "id from name", specs: []*ColumnSpec{{Name: "Column 1"}}, wantIDs: []string{"Column 1"}},
		{name: "explicit id wins", specs: []*ColumnSpec{{ID: "x", Field: "a", Name: "A"}}, wantIDs: []string{"x"}},
		{name: "same field different ids", specs: []*ColumnSpec{{ID: "a1", Field: "a"}, {ID: "a2", Field: "a"}}, wantIDs: []string{"a1", "a2"}},
		{name: "no id field or name", specs: []*ColumnSpec{{Field: "a"}, {ClassName: "x"}}, wantErr: ErrInvalidSpec},
		{name: "nil spec", specs: []*ColumnSpec{nil}, wantErr: ErrInvalidSpec},
		{name: "duplicate field", specs: []*ColumnSpec{{Field: "a"}, {Field: "a"}}, wantErr: ErrDuplicateID},
		{name: "duplicate name", specs: []*ColumnSpec{{Name: "a"}, {Name: "a"}}, wantErr: ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := new(Columns)
			err := c.Add(tt.specs...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, c.Len(), "nothing added")
				return
			}
			require.NoError(t, err)
			var ids []string
			for _, spec := range c.All() {
				ids = append(ids, spec.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestColumns_AddAgainstRegistry(t *testing.T) {
	c, err := NewColumns(&ColumnSpec{Field: "a"})
	require.NoError(t, err)

	b := &ColumnSpec{Field: "b"}
	err = c.Add(b, &ColumnSpec{Field: "a"})
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, c.Len())
	assert.Empty(t, b.ID, "ID only assigned after the whole batch validated")

	require.NoError(t, c.Add(b))
	assert.Equal(t, "b", b.ID)
}

func TestColumns_FindRemove(t *testing.T) {
	specs := []*ColumnSpec{
		{Field: "column1", Name: "Column 1", Extra: map[string]any{"customValue": 1}},
		{Field: "column2", Name: "Column 2", Disabled: true},
		{ID: "x", Field: "column2", Name: "Column 2"},
	}
	c, err := NewColumns(specs...)
	require.NoError(t, err)

	tests := []struct {
		name    string
		matcher Matcher
		want    *ColumnSpec
	}{
		{name: "by id", matcher: ID("column1"), want: specs[0]},
		{name: "by name attr", matcher: HasAttrs(map[string]any{"name": "Column 2"}), want: specs[1]},
		{name: "by several attrs", matcher: HasAttrs(map[string]any{"name": "Column 2", "disabled": false}), want: specs[2]},
		{name: "by extra attr", matcher: HasAttrs(map[string]any{"customValue": 1}), want: specs[0]},
		{name: "by func", matcher: MatchFunc(func(col *ColumnSpec) bool { return col.ID == "x" }), want: specs[2]},
		{name: "no match", matcher: ID("missing"), want: nil},
		{name: "unknown attr", matcher: HasAttrs(map[string]any{"unknown": 1}), want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Find(tt.matcher)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}

	_, err = c.Find(nil)
	require.ErrorIs(t, err, ErrUnmatchedArgument)
	_, err = c.Remove(nil)
	require.ErrorIs(t, err, ErrUnmatchedArgument)

	removed, err := c.Remove(ID("missing"))
	require.NoError(t, err)
	assert.Nil(t, removed)
	assert.Equal(t, 3, c.Len(), "no match removes nothing")

	removed, err = c.Remove(ID("column2"))
	require.NoError(t, err)
	assert.Same(t, specs[1], removed)
	assert.Equal(t, []*ColumnSpec{specs[0], specs[2]}, c.All())
	assert.Equal(t, []*ColumnSpec{specs[0], specs[2]}, c.Visible())
}

func TestColumnSpec_HeaderTitle(t *testing.T) {
	assert.Equal(t, "Name", (&ColumnSpec{Name: "Name"}).HeaderTitle())
	assert.Equal(t, "Title", (&ColumnSpec{Name: "Name", Title: "Title"}).HeaderTitle())
	assert.Equal(t, "", (&ColumnSpec{Name: "Name", HasTitle: true}).HeaderTitle())
}

func TestColumnSpec_IsToggleable(t *testing.T) {
	assert.True(t, (&ColumnSpec{}).IsToggleable())
	assert.True(t, (&ColumnSpec{Toggleable: Bool(true)}).IsToggleable())
	assert.False(t, (&ColumnSpec{Toggleable: Bool(false)}).IsToggleable())
}
