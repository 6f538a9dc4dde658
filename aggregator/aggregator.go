// Package aggregator renders a totals row into the table foot
// for columns with a ColumnSpec.Aggregator.
package aggregator

import (
	"context"
	"html/template"
	"reflect"
	"strconv"
	"strings"
	"sync"

	tabler "github.com/domonda/go-tabler"
)

const PluginName = "aggregator"

// Aggregator accumulates the values of every formatted cell
// of columns with an Aggregator function.
// Aggregates are reset before the rows of every render cycle
// are rendered.
type Aggregator struct {
	replaced tabler.Pipeline

	mtx        sync.Mutex
	aggregates map[string]any
}

func New() *Aggregator {
	return &Aggregator{}
}

// Of returns the Aggregator attached to t or nil.
func Of(t *tabler.Table) *Aggregator {
	a, _ := t.Plugin(PluginName).(*Aggregator)
	return a
}

func (a *Aggregator) PluginName() string { return PluginName }

func (a *Aggregator) Attach(t *tabler.Table) error {
	a.mtx.Lock()
	a.aggregates = make(map[string]any)
	a.mtx.Unlock()
	a.replaced = t.Decorate(func(next tabler.Pipeline) tabler.Pipeline {
		return pipeline{Pipeline: next, aggregator: a}
	})
	return nil
}

func (a *Aggregator) Detach(t *tabler.Table) error {
	t.Restore(a.replaced)
	a.replaced = nil
	a.mtx.Lock()
	a.aggregates = nil
	a.mtx.Unlock()
	return nil
}

// Aggregate returns the current aggregate of the column with the passed ID.
func (a *Aggregator) Aggregate(columnID string) any {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return a.aggregates[columnID]
}

func (a *Aggregator) reset() {
	a.mtx.Lock()
	clear(a.aggregates)
	a.mtx.Unlock()
}

func (a *Aggregator) add(col *tabler.ColumnSpec, value any, index int) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.aggregates != nil {
		a.aggregates[col.ID] = col.Aggregator(a.aggregates[col.ID], value, index)
	}
}

func (a *Aggregator) renderTotals(t *tabler.Table, cols []*tabler.ColumnSpec) template.HTML {
	p := t.Pipeline()
	lines := []string{string(p.RenderFootTr(t))}
	for _, col := range cols {
		var content template.HTML
		switch {
		case col.AggregatorText != "":
			content = tabler.Escape(col.AggregatorText)
		case col.Aggregator != nil:
			if value := a.Aggregate(col.ID); !tabler.IsEmptyValue(value) {
				content = tabler.Escape(tabler.ValueText(value))
			}
		}
		lines = append(lines, string(tabler.MakeTag("td", content, p.MakeColumnAttrs(t, col))))
	}
	lines = append(lines, "</tr>")
	return template.HTML(strings.Join(lines, "\n")) //#nosec G203
}

type pipeline struct {
	tabler.Pipeline
	aggregator *Aggregator
}

func (p pipeline) RenderTable(ctx context.Context, t *tabler.Table, data *tabler.Data) error {
	p.aggregator.reset()
	return p.Pipeline.RenderTable(ctx, t, data)
}

func (p pipeline) FormatValue(t *tabler.Table, row tabler.Row, col *tabler.ColumnSpec, index int) template.HTML {
	if col.Aggregator != nil {
		p.aggregator.add(col, row[col.Field], index)
	}
	return p.Pipeline.FormatValue(t, row, col, index)
}

func (p pipeline) RenderFoot(t *tabler.Table, data *tabler.Data, cols []*tabler.ColumnSpec) template.HTML {
	foot := p.Pipeline.RenderFoot(t, data, cols)
	for _, col := range cols {
		if col.Aggregator != nil {
			return p.aggregator.renderTotals(t, cols)
		}
	}
	return foot
}

// Sum adds up all numeric values.
// Strings are parsed as float, other values are ignored.
func Sum(acc, value any, index int) any {
	sum, _ := acc.(float64)
	if f, ok := Float(value); ok {
		sum += f
	}
	return sum
}

// Count counts the non empty values.
func Count(acc, value any, index int) any {
	count, _ := acc.(int)
	if !tabler.IsEmptyValue(value) {
		count++
	}
	return count
}

// Float converts numeric values and numeric strings to float64.
func Float(value any) (float64, bool) {
	switch x := value.(type) {
	case nil:
		return 0, false
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0, false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}
