package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dharsanguruparan/prospectscan/internal/model"
)

// Column is a spreadsheet header the API recognizes, with its snake_case
// alias when it has one.
type Column struct {
	Header string
	Alias  string
}

// SupportedColumns lists the ZoomInfo export headers read by the API.
var SupportedColumns = []Column{
	{Header: "Company Name", Alias: "company_name"},
	{Header: "Website", Alias: "website"},
	{Header: "Industry", Alias: "industry"},
	{Header: "Employees", Alias: "employee_range"},
	{Header: "Revenue", Alias: "revenue_range"},
	{Header: "Employee Growth (YoY)"},
	{Header: "Technologies"},
}

// ResultView is the success panel of an upload. Every domain is kept.
type ResultView struct {
	SnapshotID string
	Count      int
	Timestamp  string
	Domains    []string
	Columns    []Column
}

// NewResultView prepares an upload result for display in loc.
func NewResultView(r model.UploadResult, loc *time.Location) ResultView {
	return ResultView{
		SnapshotID: r.SnapshotID,
		Count:      r.EmpresasCount,
		Timestamp:  FormatTimestamp(r.Timestamp, loc),
		Domains:    append([]string(nil), r.Dominios...),
		Columns:    SupportedColumns,
	}
}

// WriteText prints the panel for a terminal.
func (v ResultView) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Snapshot Creado\n")
	fmt.Fprintf(&b, "  Snapshot ID:         %s\n", v.SnapshotID)
	fmt.Fprintf(&b, "  Empresas procesadas: %d\n", v.Count)
	fmt.Fprintf(&b, "  Timestamp:           %s\n", v.Timestamp)
	fmt.Fprintf(&b, "\nDominios extraídos (%d)\n", len(v.Domains))
	for _, d := range v.Domains {
		fmt.Fprintf(&b, "  [%s]\n", d)
	}
	b.WriteString("\nAhora puedes ejecutar el cruce semántico\n")
	b.WriteString("\nColumnas soportadas del Excel ZoomInfo:\n")
	for _, c := range v.Columns {
		if c.Alias != "" {
			fmt.Fprintf(&b, "  - %s / %s\n", c.Header, c.Alias)
			continue
		}
		fmt.Fprintf(&b, "  - %s\n", c.Header)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
