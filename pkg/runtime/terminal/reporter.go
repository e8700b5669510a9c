package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/traffic-atlas/pkg/models/domain"
)

// Reporter renders a traffic report as a flat list, without tables.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (r *Reporter) Handle(report *domain.Report) error {
	tmpl := `{{.Title}}
Site: {{.SiteID}}
Period: {{.Period.Start.Format "2006-01-02"}} to {{.Period.End.Format "2006-01-02"}} ({{.Period.Days}} days)
{{range .Sections}}
{{.Title}}
{{range $key, $value := .Summary}}  {{$key}}: {{$value}}
{{end}}{{range .Details}}  - {{.Name}}: {{.Value}}{{if .Unit}} {{.Unit}}{{end}}
{{end}}{{end}}`

	t, err := template.New("report").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(r.writer, report)
}
