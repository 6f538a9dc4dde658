package tabler

import (
	"fmt"
	"reflect"
	"strings"
)

// StructFieldNaming defines how struct fields
// are mapped to Row fields by RowsFromStructs.
//
// nil is a valid value for *StructFieldNaming
// and is equal to the zero value
// which will use all exported struct fields
// with their field name as Row field.
type StructFieldNaming struct {
	// Tag is the struct field tag to be used as Row field.
	// If Tag is empty, then every struct field will be treated as untagged.
	Tag string
	// Ignore is the Row field name of struct fields to skip.
	Ignore string
	// Untagged will be called with the struct field name to
	// return a Row field in case the struct field has no tag named Tag.
	// If Untagged is nil, then the struct field name will be used.
	Untagged func(fieldName string) (field string)
}

// String implements the fmt.Stringer interface for StructFieldNaming.
func (n *StructFieldNaming) String() string {
	if n == nil {
		return `StructFieldNaming{Tag: "", Ignore: ""}`
	}
	return fmt.Sprintf("StructFieldNaming{Tag: %#v, Ignore: %#v}", n.Tag, n.Ignore)
}

// StructFieldName returns the Row field name for a struct field.
func (n *StructFieldNaming) StructFieldName(structField reflect.StructField) string {
	if n == nil {
		return structField.Name
	}
	if n.Tag != "" {
		if tag, ok := structField.Tag.Lookup(n.Tag); ok {
			if i := strings.IndexByte(tag, ','); i != -1 {
				tag = tag[:i]
			}
			if tag != "" {
				return tag
			}
		}
	}
	if n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

// IsIgnored returns true if field equals a non empty Ignore.
func (n *StructFieldNaming) IsIgnored(field string) bool {
	return n != nil && n.Ignore != "" && field == n.Ignore
}

// Fields returns the Row field names of a struct type
// in struct field order without ignored fields.
func (n *StructFieldNaming) Fields(structType reflect.Type) []string {
	var fields []string
	for _, structField := range StructFieldTypes(structType) {
		if field := n.StructFieldName(structField); !n.IsIgnored(field) {
			fields = append(fields, field)
		}
	}
	return fields
}
