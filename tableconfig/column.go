package tableconfig

import (
	"fmt"
	"strconv"
	"strings"

	tabler "github.com/domonda/go-tabler"
	"github.com/domonda/go-tabler/aggregator"
	"github.com/domonda/go-tabler/formatters"
)

// Column is the YAML configuration of a tabler.ColumnSpec.
type Column struct {
	ID              string  `yaml:"id"`
	Field           string  `yaml:"field"`
	Name            string  `yaml:"name"`
	Title           *string `yaml:"title"`
	GroupName       string  `yaml:"groupName"`
	Disabled        bool    `yaml:"disabled"`
	Toggleable      *bool   `yaml:"toggleable"`
	ClassName       string  `yaml:"className"`
	HeaderClassName string  `yaml:"headerClassName"`
	Width           string  `yaml:"width"`
	DefaultText     string  `yaml:"defaultText"`
	Sortable        bool    `yaml:"sortable"`

	// Aggregate is "sum" or "count".
	Aggregate      string `yaml:"aggregate"`
	AggregatorText string `yaml:"aggregatorText"`

	// Format is one of "pre", "code", "anchor", "json",
	// "json:<indent>", "markdown", "truncate:<width>"
	// or "span:<class>".
	Format string `yaml:"format"`

	UpdateFields []string       `yaml:"updateFields"`
	Extra        map[string]any `yaml:"extra"`
}

func (c *Column) Validate() error {
	if c.ID == "" && c.Field == "" && c.Name == "" {
		return fmt.Errorf("column needs id, field or name: %w", tabler.ErrInvalidSpec)
	}
	if _, err := c.aggregator(); err != nil {
		return err
	}
	if _, err := c.formatter(); err != nil {
		return err
	}
	return nil
}

// ColumnSpec returns a new tabler.ColumnSpec.
// Invalid aggregate or format values are ignored,
// use Validate to check them.
func (c *Column) ColumnSpec() *tabler.ColumnSpec {
	spec := &tabler.ColumnSpec{
		ID:              c.ID,
		Field:           c.Field,
		Name:            c.Name,
		GroupName:       c.GroupName,
		Disabled:        c.Disabled,
		Toggleable:      c.Toggleable,
		ClassName:       c.ClassName,
		HeaderClassName: c.HeaderClassName,
		Width:           c.Width,
		DefaultText:     c.DefaultText,
		Sortable:        c.Sortable,
		AggregatorText:  c.AggregatorText,
		UpdateFields:    c.UpdateFields,
		Extra:           c.Extra,
	}
	if c.Title != nil {
		spec.Title = *c.Title
		spec.HasTitle = true
	}
	spec.Aggregator, _ = c.aggregator()
	spec.Formatter, _ = c.formatter()
	return spec
}

func (c *Column) aggregator() (tabler.AggregatorFunc, error) {
	switch c.Aggregate {
	case "":
		return nil, nil
	case "sum":
		return aggregator.Sum, nil
	case "count":
		return aggregator.Count, nil
	}
	return nil, fmt.Errorf("unknown aggregate %q: %w", c.Aggregate, tabler.ErrInvalidSpec)
}

func (c *Column) formatter() (tabler.FormatterFunc, error) {
	name, arg, _ := strings.Cut(c.Format, ":")
	switch name {
	case "":
		return nil, nil
	case "pre":
		return formatters.Pre, nil
	case "code":
		return formatters.Code, nil
	case "anchor":
		return formatters.Anchor, nil
	case "json":
		return formatters.JSON(arg), nil
	case "markdown":
		return formatters.Markdown, nil
	case "span":
		return formatters.SpanClass(arg), nil
	case "truncate":
		width, err := strconv.Atoi(arg)
		if err != nil || width < 1 {
			return nil, fmt.Errorf("invalid truncate width in format %q: %w", c.Format, tabler.ErrInvalidSpec)
		}
		return formatters.Truncate(width), nil
	}
	return nil, fmt.Errorf("unknown format %q: %w", c.Format, tabler.ErrInvalidSpec)
}
