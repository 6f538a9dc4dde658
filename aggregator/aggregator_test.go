package aggregator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabler "github.com/domonda/go-tabler"
)

func TestAggregator_Totals(t *testing.T) {
	ctx := context.Background()
	a := New()
	tbl, err := tabler.New([]*tabler.ColumnSpec{
		{Field: "name", AggregatorText: "Total"},
		{Field: "amount", Aggregator: Sum, ClassName: "number"},
		{Field: "comment", Aggregator: Count},
		{Field: "other"},
	}, &tabler.Options{Plugins: []tabler.Plugin{a}})
	require.NoError(t, err)
	assert.Same(t, a, Of(tbl))

	tbl.Load([]tabler.Row{
		{"name": "a", "amount": 1, "comment": "x"},
		{"name": "b", "amount": 2.5},
		{"name": "c", "amount": "3", "comment": "y"},
	})
	require.NoError(t, tbl.Render(ctx))

	wantFoot := "" +
		"<tr>\n" +
		"<td>Total</td>\n" +
		`<td class="number">6.5</td>` + "\n" +
		"<td>2</td>\n" +
		"<td></td>\n" +
		"</tr>"
	assert.Equal(t, wantFoot, string(tbl.Foot()))

	require.NoError(t, tbl.Render(ctx))
	assert.Equal(t, wantFoot, string(tbl.Foot()), "aggregates are reset on render")
	assert.Equal(t, 6.5, a.Aggregate("amount"))
	assert.Equal(t, 2, a.Aggregate("comment"))
}

func TestAggregator_AsyncFetch(t *testing.T) {
	ctx := context.Background()
	rows := []tabler.Row{
		{"name": "a", "amount": 1},
		{"name": "b", "amount": 2.5},
		{"name": "c", "amount": 3},
	}
	a := New()
	tbl, err := tabler.New([]*tabler.ColumnSpec{
		{Field: "name", AggregatorText: "Total"},
		{Field: "amount", Aggregator: Sum},
	}, &tabler.Options{
		Plugins: []tabler.Plugin{a},
		Fetch: tabler.FetcherFunc(func(ctx context.Context, opts tabler.FetchOptions, done tabler.FetchDone) {
			go func() {
				time.Sleep(time.Millisecond)
				done(&tabler.Data{Items: rows}, nil)
			}()
		}),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				a.Aggregate("amount")
				tbl.Foot()
			}
		}
	}()
	for range 50 {
		require.NoError(t, tbl.Render(ctx))
		time.Sleep(500 * time.Microsecond)
	}
	require.Eventually(t, func() bool { return !tbl.Loading() }, 5*time.Second, time.Millisecond)
	close(stop)
	wg.Wait()

	assert.Equal(t, 6.5, a.Aggregate("amount"))
	assert.Equal(t, ""+
		"<tr>\n"+
		"<td>Total</td>\n"+
		"<td>6.5</td>\n"+
		"</tr>",
		string(tbl.Foot()),
	)
}

func TestAggregator_NoAggregatorColumns(t *testing.T) {
	tbl, err := tabler.New([]*tabler.ColumnSpec{{Field: "name"}}, &tabler.Options{Plugins: []tabler.Plugin{New()}})
	require.NoError(t, err)
	tbl.Load([]tabler.Row{{"name": "a"}})
	require.NoError(t, tbl.Render(context.Background()))
	assert.Empty(t, tbl.Foot())

	require.NoError(t, tbl.RemovePlugin(PluginName))
	assert.Nil(t, Of(tbl))
}

func TestAggregator_Detach(t *testing.T) {
	a := New()
	tbl, err := tabler.New([]*tabler.ColumnSpec{{Field: "amount", Aggregator: Sum}}, &tabler.Options{Plugins: []tabler.Plugin{a}})
	require.NoError(t, err)
	tbl.Load([]tabler.Row{{"amount": 1}})
	require.NoError(t, tbl.RemovePlugin(PluginName))
	require.NoError(t, tbl.Render(context.Background()))
	assert.Empty(t, tbl.Foot())
	assert.Nil(t, a.Aggregate("amount"))
}

func TestFloat(t *testing.T) {
	i := 7
	var nilPtr *int
	tests := []struct {
		name   string
		value  any
		want   float64
		wantOK bool
	}{
		{name: "int", value: 3, want: 3, wantOK: true},
		{name: "uint8", value: uint8(4), want: 4, wantOK: true},
		{name: "float32", value: float32(0.5), want: 0.5, wantOK: true},
		{name: "pointer", value: &i, want: 7, wantOK: true},
		{name: "string", value: " 1.25 ", want: 1.25, wantOK: true},
		{name: "text", value: "abc"},
		{name: "nil", value: nil},
		{name: "nil pointer", value: nilPtr},
		{name: "bool", value: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Float(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
