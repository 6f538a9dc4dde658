package tabler

import (
	"fmt"
	"slices"
)

// Matcher selects column specs of a Columns registry.
type Matcher interface {
	MatchColumn(col *ColumnSpec) bool
}

// MatchFunc implements Matcher with a predicate function.
type MatchFunc func(col *ColumnSpec) bool

func (f MatchFunc) MatchColumn(col *ColumnSpec) bool { return f(col) }

// ID returns a Matcher for the column with the passed ID.
func ID(id string) Matcher {
	return MatchFunc(func(col *ColumnSpec) bool { return col.ID == id })
}

// HasAttrs returns a Matcher for columns having all passed
// attributes with equal values, see ColumnSpec.Attr.
func HasAttrs(attrs map[string]any) Matcher {
	return MatchFunc(func(col *ColumnSpec) bool { return col.matchesAttrs(attrs) })
}

// Columns is the ordered registry of column specs of a Table.
type Columns struct {
	specs []*ColumnSpec
}

// NewColumns returns a registry with the passed specs
// or an error if Add would fail for them.
func NewColumns(specs ...*ColumnSpec) (*Columns, error) {
	c := new(Columns)
	if err := c.Add(specs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Add appends specs as one batch.
// Either all specs are added with their IDs assigned,
// or none and an error wrapping ErrInvalidSpec
// or ErrDuplicateID is returned.
func (c *Columns) Add(specs ...*ColumnSpec) error {
	ids := make([]string, len(specs))
	seen := make(map[string]int, len(specs))
	for i, spec := range specs {
		if spec == nil {
			return fmt.Errorf("column spec at index %d is nil: %w", i, ErrInvalidSpec)
		}
		id := spec.defaultID()
		if id == "" {
			return fmt.Errorf("column spec at index %d has no ID, Field or Name: %w", i, ErrInvalidSpec)
		}
		if c.indexOf(id) >= 0 {
			return fmt.Errorf("column spec ID %q already registered: %w", id, ErrDuplicateID)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("column spec ID %q used at index %d and %d: %w", id, prev, i, ErrDuplicateID)
		}
		seen[id] = i
		ids[i] = id
	}
	for i, spec := range specs {
		spec.ID = ids[i]
	}
	c.specs = append(c.specs, specs...)
	return nil
}

// Find returns the first spec matching m
// or nil if there is none.
func (c *Columns) Find(m Matcher) (*ColumnSpec, error) {
	if m == nil {
		return nil, fmt.Errorf("nil Matcher: %w", ErrUnmatchedArgument)
	}
	if c == nil {
		return nil, nil
	}
	for _, spec := range c.specs {
		if m.MatchColumn(spec) {
			return spec, nil
		}
	}
	return nil, nil
}

// Remove removes and returns the first spec matching m.
// Nothing is removed and nil is returned if there is no match.
func (c *Columns) Remove(m Matcher) (*ColumnSpec, error) {
	if m == nil {
		return nil, fmt.Errorf("nil Matcher: %w", ErrUnmatchedArgument)
	}
	if c == nil {
		return nil, nil
	}
	i := slices.IndexFunc(c.specs, m.MatchColumn)
	if i < 0 {
		return nil, nil
	}
	spec := c.specs[i]
	c.specs = slices.Delete(c.specs, i, i+1)
	return spec, nil
}

// All returns all specs in registry order.
// The returned slice must not be modified.
func (c *Columns) All() []*ColumnSpec {
	if c == nil {
		return nil
	}
	return c.specs
}

// Visible returns the specs that are not disabled.
func (c *Columns) Visible() []*ColumnSpec {
	if c == nil {
		return nil
	}
	visible := make([]*ColumnSpec, 0, len(c.specs))
	for _, spec := range c.specs {
		if !spec.Disabled {
			visible = append(visible, spec)
		}
	}
	return visible
}

func (c *Columns) Len() int {
	if c == nil {
		return 0
	}
	return len(c.specs)
}

func (c *Columns) indexOf(id string) int {
	return slices.IndexFunc(c.specs, func(spec *ColumnSpec) bool { return spec.ID == id })
}
