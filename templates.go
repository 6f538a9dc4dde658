package tabler

import "html/template"

// TableTemplate renders the committed surface of a Table
// using a TemplateContext. Sections without markup are omitted.
var TableTemplate = template.Must(template.New("table").Parse("" +
	"<table{{if .ClassName}} class=\"{{.ClassName}}\"{{end}}>\n" +
	"{{if .Head}}<thead>{{.Head}}</thead>\n{{end}}" +
	"{{if .Body}}<tbody>{{.Body}}</tbody>\n{{end}}" +
	"{{if .Foot}}<tfoot>{{.Foot}}</tfoot>\n{{end}}" +
	"</table>",
))

type TemplateContext struct {
	ClassName string
	Loading   bool

	Head template.HTML
	Body template.HTML
	Foot template.HTML
}
