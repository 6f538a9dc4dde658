// Package sqlsource fetches table data by running
// caller supplied SQL queries through database/sql.
//
// Queries are never composed by this package,
// a QueryFunc maps the fetch options to a query and its arguments.
package sqlsource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-logr/logr"

	tabler "github.com/domonda/go-tabler"
)

// Queryer is implemented by *sql.DB, *sql.Tx and *sql.Conn.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// QueryFunc returns the query and its arguments for the fetch options.
type QueryFunc func(opts tabler.FetchOptions) (query string, args []any)

// StaticQuery returns a QueryFunc that ignores the fetch options.
func StaticQuery(query string, args ...any) QueryFunc {
	return func(tabler.FetchOptions) (string, []any) {
		return query, args
	}
}

// Source implements tabler.Fetcher.
type Source struct {
	DB Queryer
	// Query returns the rows to render.
	Query QueryFunc
	// Count optionally returns a query for a single integer
	// with the total number of results. If nil, then the
	// number of rows returned by Query is the total.
	Count QueryFunc
	// Async runs the queries in a new goroutine.
	Async bool

	Logger logr.Logger
}

var _ tabler.Fetcher = new(Source)

// Fetch implements tabler.Fetcher.
func (s *Source) Fetch(ctx context.Context, opts tabler.FetchOptions, done tabler.FetchDone) {
	if s.Async {
		go func() { done(s.Load(ctx, opts)) }()
		return
	}
	done(s.Load(ctx, opts))
}

// Load runs the queries for opts and returns their result as tabler.Data.
func (s *Source) Load(ctx context.Context, opts tabler.FetchOptions) (*tabler.Data, error) {
	if s.DB == nil || s.Query == nil {
		return nil, fmt.Errorf("sqlsource needs DB and Query: %w", tabler.ErrInvalidOptions)
	}
	log := s.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	query, args := s.Query(opts)
	log.V(1).Info("query", "query", query, "args", args)
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	items, _, err := ScanRows(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("scan rows of %q: %w", query, err)
	}
	data := &tabler.Data{Items: items, TotalResults: len(items)}

	if s.Count != nil {
		query, args := s.Count(opts)
		log.V(1).Info("count", "query", query, "args", args)
		var total sql.NullInt64
		if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
			return nil, fmt.Errorf("count %q: %w", query, err)
		}
		data.TotalResults = int(total.Int64)
	}
	return data, nil
}
