package tabler

import (
	"fmt"
	"reflect"
)

// RowsFromStructs returns a Row per element of structSlice
// keyed by the field names of naming.
// structSlice must be a slice or array of structs or struct pointers.
// Nil struct pointers result in empty rows.
//
// The returned fields are in struct field order
// and can be passed to ColumnsForFields.
func RowsFromStructs(structSlice any, naming *StructFieldNaming) (rows []Row, fields []string, err error) {
	v := reflect.ValueOf(structSlice)
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, nil, fmt.Errorf("expected slice or array of structs, got %T", structSlice)
	}
	elemType := v.Type().Elem()
	for elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("expected slice or array of structs, got %T", structSlice)
	}

	structFields := StructFieldTypes(elemType)
	names := make([]string, len(structFields))
	for i, structField := range structFields {
		names[i] = naming.StructFieldName(structField)
		if !naming.IsIgnored(names[i]) {
			fields = append(fields, names[i])
		}
	}

	rows = make([]Row, v.Len())
	for i := range rows {
		row := make(Row, len(fields))
		elem := v.Index(i)
		for elem.Kind() == reflect.Ptr || elem.Kind() == reflect.Interface {
			if elem.IsNil() {
				break
			}
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct {
			for j, fieldValue := range StructFieldValues(elem) {
				if naming.IsIgnored(names[j]) {
					continue
				}
				row[names[j]] = fieldValue.Interface()
			}
		}
		rows[i] = row
	}
	return rows, fields, nil
}
