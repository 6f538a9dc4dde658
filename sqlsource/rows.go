package sqlsource

import (
	"context"
	"database/sql"
	"slices"

	tabler "github.com/domonda/go-tabler"
)

var _ Rows = &sql.Rows{}

// Rows abstracts the methods of *sql.Rows
// used to scan a result set into table rows.
type Rows interface {
	Columns() ([]string, error)
	Scan(dest ...any) error
	Close() error
	Next() bool
	Err() error
}

// ScanRows scans all rows into tabler.Rows keyed by column name
// and closes rows.
// Column values are stored as returned by the driver,
// []byte values are copied.
func ScanRows(ctx context.Context, rows Rows) (items []tabler.Row, columns []string, err error) {
	defer rows.Close()

	columns, err = rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	items = []tabler.Row{}
	for rows.Next() {
		if ctx.Err() != nil {
			return nil, columns, ctx.Err()
		}
		scannedValues := make([]any, len(columns))
		valueScanners := make([]any, len(columns))
		for i := range valueScanners {
			valueScanners[i] = valueScanner{&scannedValues[i]}
		}
		err = rows.Scan(valueScanners...)
		if err != nil {
			return items, columns, err
		}
		row := make(tabler.Row, len(columns))
		for i, col := range columns {
			row[col] = scannedValues[i]
		}
		items = append(items, row)
	}
	return items, columns, rows.Err()
}

var _ sql.Scanner = new(valueScanner)

type valueScanner struct {
	dest *any
}

// Scan implements the database/sql.Scanner interface.
func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		// Copy bytes because they won't be valid after this method call
		src = slices.Clone(b)
	}
	*s.dest = src
	return nil
}
