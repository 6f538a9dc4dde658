package tabler

import (
	"context"
	"slices"
	"strings"
)

// SortDirection is either SortAscending or SortDescending.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ParseSortDirection normalizes "asc", "ascending",
// "desc" and "descending" in any case.
// Everything that is not ascending is descending.
func ParseSortDirection(s string) SortDirection {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "ending")
	if s == string(SortAscending) {
		return SortAscending
	}
	return SortDescending
}

// Reverse returns the opposite direction.
func (d SortDirection) Reverse() SortDirection {
	if d == SortAscending {
		return SortDescending
	}
	return SortAscending
}

type PageOptions struct {
	CurrentPage int
	PageSize    int
}

type SortOptions struct {
	Field     string
	Direction SortDirection
}

// FetchOptions are contributed by plugins and passed
// to the Fetcher of a Table.
type FetchOptions struct {
	Page   *PageOptions
	Sort   *SortOptions
	Filter string
}

// Data is a fetch response.
// TotalResults may be larger than len(Items)
// if the Fetcher already sliced a page.
type Data struct {
	Items        []Row
	TotalResults int
}

// Total returns TotalResults or len(Items) if TotalResults is zero.
func (d *Data) Total() int {
	if d.TotalResults > 0 {
		return d.TotalResults
	}
	return len(d.Items)
}

// Clone returns a copy of d with its own Items slice.
// The Row maps are shared.
func (d *Data) Clone() *Data {
	if d == nil {
		return nil
	}
	return &Data{Items: slices.Clone(d.Items), TotalResults: d.TotalResults}
}

// FetchDone receives the result of a fetch.
// It must be called exactly once, either synchronously
// or later from any goroutine.
type FetchDone func(data *Data, err error)

// Fetcher acquires the data to render for the passed options.
type Fetcher interface {
	Fetch(ctx context.Context, opts FetchOptions, done FetchDone)
}

// FetcherFunc implements Fetcher with a function.
type FetcherFunc func(ctx context.Context, opts FetchOptions, done FetchDone)

func (f FetcherFunc) Fetch(ctx context.Context, opts FetchOptions, done FetchDone) {
	f(ctx, opts, done)
}

// StaticFetcher returns a Fetcher that always responds with a clone of data.
func StaticFetcher(data *Data) Fetcher {
	return FetcherFunc(func(ctx context.Context, opts FetchOptions, done FetchDone) {
		done(data.Clone(), nil)
	})
}
