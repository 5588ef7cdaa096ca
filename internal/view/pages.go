package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"

	"github.com/dharsanguruparan/prospectscan/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Pages.Render.
const (
	PageIngesta = "ingesta"
	PageCruce   = "cruce"
	PageHeatmap = "heatmap"
)

// Page is the data handed to the layout. Data is the page-specific model.
type Page struct {
	Title  string
	Active string
	Data   any
}

// IngestaPage drives the upload page.
type IngestaPage struct {
	Uploading bool
	Error     string
	ErrorKind string
	Result    *ResultView
	MaxSize   string
}

// CrucePage drives the cruce page. SnapshotID is empty until an upload
// succeeds.
type CrucePage struct {
	SnapshotID string
}

// HeatmapRow is one domain of the heatmap table.
type HeatmapRow struct {
	Domain   string
	Href     string
	Score    int
	Band     string
	Provider string
	Identity string
	Exposure string
	General  string
	SPF      string
	DMARC    string
	HTTPS    string
	CDNWAF   string
}

// HeatmapPage drives the heatmap page. Detail is set when a domain's
// analysis is open on top of the table.
type HeatmapPage struct {
	Rows   []HeatmapRow
	Detail *DetailData
}

// NewHeatmapRows prepares heatmap domains for the table.
func NewHeatmapRows(domains []model.HeatmapDomain) []HeatmapRow {
	rows := make([]HeatmapRow, 0, len(domains))
	for _, d := range domains {
		cdn := "-"
		if d.CDNWAF != nil && *d.CDNWAF != "" {
			cdn = *d.CDNWAF
		}
		rows = append(rows, HeatmapRow{
			Domain:   d.Domain,
			Href:     DetailPath(d.Domain, ""),
			Score:    d.Score,
			Band:     ScoreBand(d.Score),
			Provider: d.Provider,
			Identity: d.IdentityLevel,
			Exposure: d.ExposureLevel,
			General:  d.GeneralLevel,
			SPF:      d.SPFStatus,
			DMARC:    d.DMARCStatus,
			HTTPS:    d.HTTPSStatus,
			CDNWAF:   cdn,
		})
	}
	return rows
}

// DetailPath links to a domain's analysis, optionally on a given tab.
func DetailPath(domain string, tab Tab) string {
	p := "/heatmap/" + url.PathEscape(domain)
	if tab != "" {
		p += "?tab=" + url.QueryEscape(string(tab))
	}
	return p
}

// ClickPath reports a click on the open detail modal. tab lets a click that
// does not close the modal land back on the same tab.
func ClickPath(domain string, tab Tab, target Target) string {
	q := url.Values{"target": {string(target)}}
	if tab != "" {
		q.Set("tab", string(tab))
	}
	return "/heatmap/" + url.PathEscape(domain) + "/click?" + q.Encode()
}

// Pages renders the shell's HTML pages from embedded templates.
type Pages struct {
	sets map[string]*template.Template
}

// NewPages parses the layout once per page.
func NewPages() (*Pages, error) {
	funcs := template.FuncMap{"detailPath": DetailPath}
	p := &Pages{sets: make(map[string]*template.Template)}
	for _, name := range []string{PageIngesta, PageCruce, PageHeatmap} {
		files := []string{"templates/layout.html", "templates/" + name + ".html"}
		if name == PageHeatmap {
			files = append(files, "templates/detail.html")
		}
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", name, err)
		}
		p.sets[name] = t
	}
	return p, nil
}

// Render writes a full page.
func (p *Pages) Render(w io.Writer, name string, page Page) error {
	t, ok := p.sets[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", page)
}

// Static returns the stylesheet tree served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
