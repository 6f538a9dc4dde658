package tabler

import (
	"html/template"
	"strings"
)

// Attr is a single HTML attribute.
type Attr struct {
	Name  string
	Value string
}

// Attrs is an ordered list of HTML attributes.
// Attributes with empty values are not rendered.
type Attrs []Attr

// Get returns the value of the named attribute.
func (a Attrs) Get(name string) string {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value
		}
	}
	return ""
}

// Set replaces the value of the named attribute
// or appends it if not present.
func (a Attrs) Set(name, value string) Attrs {
	for i := range a {
		if a[i].Name == name {
			a[i].Value = value
			return a
		}
	}
	return append(a, Attr{Name: name, Value: value})
}

// AddClass appends a class name to the class attribute.
func (a Attrs) AddClass(class string) Attrs {
	return a.Set("class", JoinClassNames(a.Get("class"), class))
}

// JoinClassNames joins the non empty class names with a space.
func JoinClassNames(classNames ...string) string {
	var b strings.Builder
	for _, c := range classNames {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c)
	}
	return b.String()
}

// HasClassName returns true if the space separated
// classNames contain class.
func HasClassName(classNames, class string) bool {
	for _, c := range strings.Fields(classNames) {
		if c == class {
			return true
		}
	}
	return false
}

// RemoveClassNames removes all of remove from the space separated classNames.
func RemoveClassNames(classNames string, remove ...string) string {
	fields := strings.Fields(classNames)
	kept := fields[:0]
	for _, c := range fields {
		keep := true
		for _, r := range remove {
			if c == r {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, " ")
}

// MakeTag returns the markup of an HTML element
// with escaped attribute values and trusted content.
func MakeTag(tag string, content template.HTML, attrs Attrs) template.HTML {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	writeAttrs(&b, attrs)
	b.WriteByte('>')
	b.WriteString(string(content))
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
	return template.HTML(b.String()) //#nosec G203 -- attribute values are escaped, content is trusted
}

// OpenTag returns the opening tag of an HTML element.
func OpenTag(tag string, attrs Attrs) template.HTML {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	writeAttrs(&b, attrs)
	b.WriteByte('>')
	return template.HTML(b.String()) //#nosec G203 -- attribute values are escaped
}

func writeAttrs(b *strings.Builder, attrs Attrs) {
	for _, attr := range attrs {
		if attr.Value == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		b.WriteString(`="`)
		b.WriteString(template.HTMLEscapeString(attr.Value))
		b.WriteByte('"')
	}
}

// Escape returns the HTML escaped text.
func Escape(text string) template.HTML {
	return template.HTML(template.HTMLEscapeString(text)) //#nosec G203
}
