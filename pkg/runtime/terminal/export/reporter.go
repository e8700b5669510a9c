package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/traffic-atlas/pkg/models/domain"
	"github.com/de-tools/traffic-atlas/pkg/services/query"
)

// TableConfig holds the column widths of the report tables.
type TableConfig struct {
	NameWidth  int
	ValueWidth int
	UnitWidth  int
}

// DefaultTableConfig returns the default column widths.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:  44,
		ValueWidth: 12,
		UnitWidth:  12,
	}
}

// Reporter renders traffic reports as plain-text tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

// Handle renders a full traffic report, one table per section.
func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(name, value interface{}, unit string) string {
			return fmt.Sprintf("| %-*v | %*v | %-*s |",
				c.config.NameWidth, name,
				c.config.ValueWidth, value,
				c.config.UnitWidth, unit)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.UnitWidth+2))
		},
	}

	tmpl := `{{.Title}}
Site: {{.SiteID}}
Period: {{.Period.Start.Format "2006-01-02"}} to {{.Period.End.Format "2006-01-02"}} ({{.Period.Days}} days)
{{range .Sections}}
{{.Title}}
{{range $key, $value := .Summary}}  {{$key}}: {{$value}}
{{end}}{{if .Details}}{{separator}}
{{formatRow "Name" "Value" "Unit"}}
{{separator}}
{{range .Details}}{{formatRow .Name .Value .Unit}}
{{end}}{{separator}}
{{end}}{{end}}`

	return c.render("report", tmpl, funcMap, report)
}

// TimeSeries renders visitors and page views per time bucket.
func (c *Reporter) TimeSeries(points []domain.TimeSeriesPoint) error {
	funcMap := template.FuncMap{
		"row": func(point domain.TimeSeriesPoint) string {
			return fmt.Sprintf("| %-12s | %10d | %12d |",
				point.Date.Format(domain.DateLayout), point.Visitors, point.PageViews)
		},
		"header": func() string {
			return fmt.Sprintf("| %-12s | %10s | %12s |", "Date", "Visitors", "Page views")
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", 14), strings.Repeat("-", 12), strings.Repeat("-", 14))
		},
	}

	tmpl := `{{separator}}
{{header}}
{{separator}}
{{range .}}{{row .}}
{{end}}{{separator}}
`

	return c.render("timeseries", tmpl, funcMap, points)
}

// Referrers renders the top referrers table.
func (c *Reporter) Referrers(stats []domain.ReferrerStat) error {
	funcMap := template.FuncMap{
		"row": func(stat domain.ReferrerStat) string {
			return fmt.Sprintf("| %-*s | %12d |", c.config.NameWidth, stat.URL, stat.PageViews)
		},
		"header": func() string {
			return fmt.Sprintf("| %-*s | %12s |", c.config.NameWidth, "Referrer", "Page views")
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2), strings.Repeat("-", 14))
		},
	}

	return c.render("referrers", c.listTemplate(), funcMap, stats)
}

// Browsers renders the browser breakdown table.
func (c *Reporter) Browsers(stats []domain.BrowserStat) error {
	funcMap := template.FuncMap{
		"row": func(stat domain.BrowserStat) string {
			return fmt.Sprintf("| %-24s | %12d |", stat.Browser, stat.Sessions)
		},
		"header": func() string {
			return fmt.Sprintf("| %-24s | %12s |", "Browser", "Sessions")
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+", strings.Repeat("-", 26), strings.Repeat("-", 14))
		},
	}

	return c.render("browsers", c.listTemplate(), funcMap, stats)
}

// Pages renders the most visited pages table.
func (c *Reporter) Pages(stats []domain.PageStat) error {
	funcMap := template.FuncMap{
		"row": func(stat domain.PageStat) string {
			return fmt.Sprintf("| %-*s | %12d |", c.config.NameWidth, stat.URL, stat.PageViews)
		},
		"header": func() string {
			return fmt.Sprintf("| %-*s | %12s |", c.config.NameWidth, "Page", "Page views")
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2), strings.Repeat("-", 14))
		},
	}

	return c.render("pages", c.listTemplate(), funcMap, stats)
}

// Rows renders a raw query result, one tab-separated line per row.
func (c *Reporter) Rows(result *query.Result) error {
	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	tmpl := `{{range .Rows}}{{join . "\t"}}
{{end}}{{.RowCount}} row(s)
`

	return c.render("rows", tmpl, funcMap, result)
}

func (c *Reporter) listTemplate() string {
	return `{{separator}}
{{header}}
{{separator}}
{{range .}}{{row .}}
{{end}}{{separator}}
`
}

func (c *Reporter) render(name, tmpl string, funcMap template.FuncMap, data interface{}) error {
	t, err := template.New(name).Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}
