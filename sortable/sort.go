package sortable

import (
	"cmp"
	"context"
	"reflect"
	"slices"
	"strings"
	"time"

	tabler "github.com/domonda/go-tabler"
)

// DefaultSort sorts data.Items stable ascending by field
// and reverses the result for descending order.
func DefaultSort(ctx context.Context, data *tabler.Data, field string, dir tabler.SortDirection) error {
	slices.SortStableFunc(data.Items, func(a, b tabler.Row) int {
		return CompareValues(a[field], b[field])
	})
	if dir == tabler.SortDescending {
		slices.Reverse(data.Items)
	}
	return nil
}

// CompareValues orders empty values first, then numbers,
// times and bools by value and everything else by text.
func CompareValues(a, b any) int {
	aEmpty, bEmpty := tabler.IsEmptyValue(a), tabler.IsEmptyValue(b)
	switch {
	case aEmpty && bEmpty:
		return 0
	case aEmpty:
		return -1
	case bEmpty:
		return 1
	}
	if af, ok := number(a); ok {
		if bf, ok := number(b); ok {
			return cmp.Compare(af, bf)
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(tabler.ValueText(a), tabler.ValueText(b))
}

func number(v any) (float64, bool) {
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(val.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(val.Uint()), true
	case reflect.Float32, reflect.Float64:
		return val.Float(), true
	}
	return 0, false
}
