package tabler

import (
	"context"
	"fmt"
	"html/template"
	"maps"
	"slices"
)

// Update merges partial into the displayed row at rowIndex
// and re-renders the cells depending on the changed fields
// without running a new render cycle.
//
// If the row can not be located within the committed surface,
// then the whole table is rendered again.
func (t *Table) Update(ctx context.Context, rowIndex int, partial Row, options ...UpdateOption) error {
	t.mtx.Lock()
	displayed := t.displayed
	var (
		cols     []*ColumnSpec
		rendered renderedRow
		known    bool
	)
	if rowIndex >= 0 && rowIndex < len(t.surface.rows) {
		cols = t.surface.cols
		rendered = t.surface.rows[rowIndex]
		known = true
	}
	t.mtx.Unlock()

	if displayed == nil || rowIndex < 0 || rowIndex >= len(displayed.Items) {
		return fmt.Errorf("update row %d: %w", rowIndex, ErrRowIndexOutOfRange)
	}
	row := displayed.Items[rowIndex]
	if row == nil {
		row = make(Row, len(partial))
		displayed.Items[rowIndex] = row
	}
	maps.Copy(row, partial)

	if !known {
		t.log.V(1).Info("row not rendered, rendering table", "row", rowIndex)
		return t.Render(ctx)
	}

	updated := renderedRow{open: rendered.open, cells: slices.Clone(rendered.cells)}
	t.Synchronized(func() {
		p := t.Pipeline()
		if HasUpdateOption(options, UpdateInvalidateRow) {
			updated.open = p.RenderBodyTr(t, row, rowIndex)
			updated.cells = make([]template.HTML, len(cols))
			for i, col := range cols {
				updated.cells[i] = p.RenderCell(t, row, col, rowIndex)
			}
			return
		}
		for i, col := range cols {
			for field := range partial {
				if col.DependsOn(field) {
					updated.cells[i] = p.RenderCell(t, row, col, rowIndex)
					break
				}
			}
		}
	})

	if !t.patchRow(rowIndex, updated) {
		t.log.V(1).Info("row markup not found, rendering table", "row", rowIndex)
		return t.Render(ctx)
	}
	return nil
}
