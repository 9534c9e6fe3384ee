package participation

import (
	"html/template"
	"io"
	"strings"

	"github.com/fkhayef/membership/internal/event"
)

var printTemplate = template.Must(template.New("print").Funcs(template.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Event.Name}}</title>
</head>
<body onload="window.print()">
<h1>{{.Event.Name}}</h1>
<h2>{{.Person.String}}</h2>
<p>
{{- range lines .Person.CompleteAddress}}{{.}}<br>{{end -}}
</p>
{{with .Person.EmailAddress}}<p>{{.}}</p>{{end}}
{{with .Person.PublicPhoneNumbers}}<p>{{range .}}{{.Number}} ({{.Label}})<br>{{end}}</p>{{end}}
{{if .Roles}}<p>{{range $i, $r := .Roles}}{{if $i}}, {{end}}{{$r.String}}{{end}}</p>{{end}}
{{with .Application}}
<table>
<tr><th>Priority</th><td>{{$.Priority}}</td></tr>
<tr><th>Waiting list</th><td>{{if .WaitingList}}yes{{else}}no{{end}}</td></tr>
<tr><th>Approval</th><td>{{$.Confirmation.Title}}</td></tr>
</table>
{{end}}
{{with .AdditionalInformation}}<p>{{.}}</p>{{end}}
<p>Place, date and signature: ______________________________</p>
</body>
</html>
`))

type printView struct {
	*Participation
	Event        *event.Event
	Priority     string
	Confirmation Badge
}

// RenderPrint writes the printable registration form of p
func RenderPrint(w io.Writer, p *Participation, ev *event.Event) error {
	view := printView{Participation: p, Event: ev}
	if p.Application != nil {
		view.Priority = PriorityLabel(p.Application, ev.ID)
		view.Confirmation = Confirmation(p.Application)
	}
	return printTemplate.Execute(w, view)
}
