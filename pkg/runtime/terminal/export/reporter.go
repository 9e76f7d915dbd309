package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

type TableConfig struct {
	// Cells longer than these are cut.
	MaxNameWidth int
	MaxNoteWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		MaxNameWidth: 32,
		MaxNoteWidth: 48,
	}
}

// Reporter renders reports as tables sized to their rows. Values are right
// aligned; a unit shared by every row moves into the value header.
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

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"table": func(section domain.ReportSection) string {
			return c.newTable(section).render()
		},
	}

	tmpl := `
{{.Title}}{{if .Period.Duration}} ({{.Period.Duration}} days){{end}}
Business: {{.Business}}
{{- if .Period.Duration}}
Active Period: {{.Period.Start.Format "2006-01-02"}} to {{.Period.End.Format "2006-01-02"}}
{{- end}}
{{- if .TotalAmount}}
Total Amount: {{printf "%.2f" .TotalAmount}}
{{- end}}
{{range .Sections}}
=== {{.Title}} ===
{{- range $key, $value := .Summary}}
{{$key}}: {{$value}}
{{- end}}
{{if .Details}}{{table .}}{{end}}{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

type column struct {
	header string
	right  bool
	width  int
}

type table struct {
	columns []column
	rows    [][]string
}

func (c *Reporter) newTable(section domain.ReportSection) *table {
	nameHeader := section.Columns.Name
	if nameHeader == "" {
		nameHeader = "Name"
	}
	valueHeader := section.Columns.Value
	if valueHeader == "" {
		valueHeader = "Value"
	}

	unit, shared := sharedUnit(section.Details)
	if shared && unit != "" {
		valueHeader = fmt.Sprintf("%s (%s)", valueHeader, unit)
	}
	withUnit := !shared
	withNote := false
	for _, d := range section.Details {
		if d.Description != "" {
			withNote = true
			break
		}
	}

	t := &table{columns: []column{{header: nameHeader}, {header: valueHeader, right: true}}}
	if withUnit {
		t.columns = append(t.columns, column{header: "Unit"})
	}
	if withNote {
		t.columns = append(t.columns, column{header: "Note"})
	}

	for _, d := range section.Details {
		row := []string{truncate(d.Name, c.config.MaxNameWidth), fmt.Sprint(d.Value)}
		if withUnit {
			row = append(row, d.Unit)
		}
		if withNote {
			row = append(row, truncate(d.Description, c.config.MaxNoteWidth))
		}
		t.rows = append(t.rows, row)
	}

	for i := range t.columns {
		t.columns[i].width = utf8.RuneCountInString(t.columns[i].header)
		for _, row := range t.rows {
			t.columns[i].width = max(t.columns[i].width, utf8.RuneCountInString(row[i]))
		}
	}
	return t
}

func (t *table) render() string {
	var b strings.Builder
	sep := t.separator()

	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.header
	}

	b.WriteString(sep)
	b.WriteString(t.line(headers))
	b.WriteString(sep)
	for _, row := range t.rows {
		b.WriteString(t.line(row))
	}
	b.WriteString(sep)
	return b.String()
}

func (t *table) separator() string {
	var b strings.Builder
	b.WriteString("+")
	for _, col := range t.columns {
		b.WriteString(strings.Repeat("-", col.width+2))
		b.WriteString("+")
	}
	b.WriteString("\n")
	return b.String()
}

func (t *table) line(cells []string) string {
	var b strings.Builder
	b.WriteString("|")
	for i, col := range t.columns {
		pad := strings.Repeat(" ", col.width-utf8.RuneCountInString(cells[i]))
		if col.right {
			fmt.Fprintf(&b, " %s%s |", pad, cells[i])
		} else {
			fmt.Fprintf(&b, " %s%s |", cells[i], pad)
		}
	}
	b.WriteString("\n")
	return b.String()
}

// sharedUnit reports the unit used by every row, if there is one.
func sharedUnit(details []domain.ReportDetail) (string, bool) {
	if len(details) == 0 {
		return "", true
	}
	unit := details[0].Unit
	for _, d := range details[1:] {
		if d.Unit != unit {
			return "", false
		}
	}
	return unit, true
}

func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "~"
}
