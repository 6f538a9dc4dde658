// Package rowfilter filters the rows of a table
// with a CEL expression evaluated for every row.
//
// The expression references the row as map variable "row",
// for example:
//
//	row.amount > 100 && row.name.startsWith("A")
package rowfilter

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
	celext "github.com/google/cel-go/ext"

	tabler "github.com/domonda/go-tabler"
)

const PluginName = "rowFilter"

// RowVariable is the name of the row in filter expressions.
const RowVariable = "row"

type Options struct {
	// Expression must evaluate to a bool.
	// An empty expression does not filter.
	Expression string `yaml:"expression"`
}

// RowFilter adds its expression as Filter to the fetch options
// and filters fetched data holding the complete dataset.
// Fetchers returning already sliced pages are expected
// to apply FetchOptions.Filter themselves.
type RowFilter struct {
	options  Options
	env      *cel.Env
	program  cel.Program
	table    *tabler.Table
	replaced tabler.Pipeline
}

func New(options Options) *RowFilter {
	return &RowFilter{options: options}
}

// Of returns the RowFilter attached to t or nil.
func Of(t *tabler.Table) *RowFilter {
	f, _ := t.Plugin(PluginName).(*RowFilter)
	return f
}

// NewEnv returns the CEL environment of filter expressions.
func NewEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable(RowVariable, cel.MapType(cel.StringType, cel.DynType)),
		celext.Strings(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// Compile returns the program of a boolean filter expression.
func Compile(env *cel.Env, expr string) (cel.Program, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error in %q: %w", expr, issues.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("filter expression %q has type %s instead of bool: %w", expr, t, tabler.ErrInvalidOptions)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error in %q: %w", expr, err)
	}
	return prg, nil
}

func (f *RowFilter) PluginName() string { return PluginName }

func (f *RowFilter) Attach(t *tabler.Table) (err error) {
	f.env, err = NewEnv()
	if err != nil {
		return err
	}
	f.program = nil
	if f.options.Expression != "" {
		f.program, err = Compile(f.env, f.options.Expression)
		if err != nil {
			return err
		}
	}
	f.table = t
	f.replaced = t.Decorate(func(next tabler.Pipeline) tabler.Pipeline {
		return pipeline{Pipeline: next, filter: f}
	})
	return nil
}

func (f *RowFilter) Detach(t *tabler.Table) error {
	t.Restore(f.replaced)
	f.replaced = nil
	f.table = nil
	return nil
}

func (f *RowFilter) Expression() string { return f.options.Expression }

// SetExpression compiles expr and renders the table filtered by it.
// On a compilation error the previous expression stays in effect.
func (f *RowFilter) SetExpression(ctx context.Context, expr string) error {
	if f.env == nil {
		return fmt.Errorf("%s plugin not attached: %w", PluginName, tabler.ErrMissingDependency)
	}
	var program cel.Program
	if expr != "" {
		var err error
		program, err = Compile(f.env, expr)
		if err != nil {
			return err
		}
	}
	f.options.Expression = expr
	f.program = program
	return f.table.Render(ctx)
}

// Match returns if row passes the filter expression.
// Every row matches an empty expression.
func (f *RowFilter) Match(row tabler.Row) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	if row == nil {
		row = tabler.Row{}
	}
	val, _, err := f.program.Eval(map[string]any{RowVariable: row})
	if err != nil {
		return false, fmt.Errorf("eval error in %q: %w", f.options.Expression, err)
	}
	match, ok := val.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter expression %q returned %T instead of bool: %w", f.options.Expression, val.Value(), tabler.ErrInvalidOptions)
	}
	return match, nil
}

// Filter returns data with the rows matching the expression.
// TotalResults is the number of matching rows.
func (f *RowFilter) Filter(data *tabler.Data) (*tabler.Data, error) {
	if f.program == nil || data == nil || data.Items == nil {
		return data, nil
	}
	items := make([]tabler.Row, 0, len(data.Items))
	for _, row := range data.Items {
		match, err := f.Match(row)
		if err != nil {
			return nil, err
		}
		if match {
			items = append(items, row)
		}
	}
	return &tabler.Data{Items: items, TotalResults: len(items)}, nil
}

type pipeline struct {
	tabler.Pipeline
	filter *RowFilter
}

func (p pipeline) FetchOptions(t *tabler.Table) tabler.FetchOptions {
	opts := p.Pipeline.FetchOptions(t)
	opts.Filter = p.filter.options.Expression
	return opts
}

func (p pipeline) Fetch(ctx context.Context, t *tabler.Table, opts tabler.FetchOptions, done tabler.FetchDone) {
	p.Pipeline.Fetch(ctx, t, opts, func(data *tabler.Data, err error) {
		if err != nil || data == nil || len(data.Items) != data.Total() {
			done(data, err)
			return
		}
		done(p.filter.Filter(data))
	})
}
