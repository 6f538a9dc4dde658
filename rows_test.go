package tabler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsFromStructs(t *testing.T) {
	type Invoice struct {
		Number  string  `col:"number"`
		Amount  float64 `col:"amount"`
		Comment string  `col:"-"`
		Paid    bool
	}

	rows, fields, err := RowsFromStructs([]*Invoice{
		{Number: "A-1", Amount: 9.5, Comment: "x", Paid: true},
		nil,
	}, &DefaultStructFieldNaming)
	require.NoError(t, err)
	assert.Equal(t, []string{"number", "amount", "Paid"}, fields)
	assert.Equal(t, []Row{
		{"number": "A-1", "amount": 9.5, "Paid": true},
		{},
	}, rows)

	_, _, err = RowsFromStructs([]int{1}, nil)
	require.Error(t, err)
	_, _, err = RowsFromStructs("no slice", nil)
	require.Error(t, err)
}

func TestColumnsForFields(t *testing.T) {
	cols := ColumnsForFields([]string{"company_name", "Amount"})
	require.Len(t, cols, 2)
	assert.Equal(t, "company_name", cols[0].Field)
	assert.Equal(t, "company name", cols[0].Name)
	assert.Equal(t, "Amount", cols[1].Name)
}
