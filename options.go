package tabler

import "strings"

// UpdateOption modifies the behavior of Table.Update.
type UpdateOption int

const (
	// UpdateInvalidateRow re-renders the whole row
	// including the opening tr tag instead of
	// only the cells depending on changed fields.
	UpdateInvalidateRow UpdateOption = 1 << iota
)

func (o UpdateOption) Has(option UpdateOption) bool {
	return o&option != 0
}

func (o UpdateOption) String() string {
	var b strings.Builder
	if o.Has(UpdateInvalidateRow) {
		if b.Len() > 0 {
			b.WriteString("|")
		}
		b.WriteString("InvalidateRow")
	}
	if b.Len() == 0 {
		return "no UpdateOption"
	}
	return b.String()
}

func HasUpdateOption(options []UpdateOption, option UpdateOption) bool {
	for _, o := range options {
		if o.Has(option) {
			return true
		}
	}
	return false
}
