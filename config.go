package tabler

var (
	// DefaultStructFieldNaming provides the default StructFieldNaming
	// using "col" as column tag, ignores "-" tagged fields,
	// and uses the struct field name for untagged fields.
	DefaultStructFieldNaming = StructFieldNaming{
		Tag:    "col",
		Ignore: "-",
	}

	// DefaultStructFieldNamingIgnoreUntagged provides a StructFieldNaming
	// using "col" as column tag, ignores "-" tagged as well as untagged fields.
	DefaultStructFieldNamingIgnoreUntagged = StructFieldNaming{
		Tag:      "col",
		Ignore:   "-",
		Untagged: UseName("-"),
	}
)

// UseName returns a function that
// always returns the passed name.
func UseName(name string) func(fieldName string) string {
	return func(string) string { return name }
}
