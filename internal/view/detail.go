package view

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dharsanguruparan/prospectscan/internal/model"
)

// Tab names one section of the detail view.
type Tab string

const (
	TabSummary    Tab = "summary"
	TabInsights   Tab = "insights"
	TabCommercial Tab = "commercial"
	TabSales      Tab = "sales"
)

// Tabs in display order.
var Tabs = []Tab{TabSummary, TabInsights, TabCommercial, TabSales}

// ParseTab maps a query value onto a Tab. The empty string selects the
// summary.
func ParseTab(s string) (Tab, error) {
	if s == "" {
		return TabSummary, nil
	}
	if t := Tab(s); t.valid() {
		return t, nil
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

func (t Tab) valid() bool {
	for _, known := range Tabs {
		if t == known {
			return true
		}
	}
	return false
}

// Target is where a click landed on the modal.
type Target string

const (
	TargetOverlay     Target = "overlay"
	TargetBody        Target = "body"
	TargetCloseButton Target = "close"
)

// ParseTarget maps a query value onto a Target.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetOverlay, TargetBody, TargetCloseButton:
		return t, nil
	}
	return "", fmt.Errorf("unknown click target %q", s)
}

// Presentational actions offered on the sales tab. They do nothing.
var salesActions = []string{
	"Generar Email de Outreach",
	"Buscar en LinkedIn",
	"Exportar Reporte PDF",
}

const (
	noSignalsCopy = "No se detectaron inversiones en seguridad."
	noBudgetCopy  = "No disponible"
)

// DetailView is the modal showing one AnalysisRecord. It owns the whole
// record, so switching tabs is local.
type DetailView struct {
	record  model.AnalysisRecord
	loc     *time.Location
	onClose func()

	mu     sync.Mutex
	active Tab
	open   bool
}

// NewDetailView opens a view on the summary tab. onClose runs once, when the
// view is dismissed.
func NewDetailView(rec model.AnalysisRecord, loc *time.Location, onClose func()) *DetailView {
	if loc == nil {
		loc = time.UTC
	}
	return &DetailView{record: rec, loc: loc, onClose: onClose, active: TabSummary, open: true}
}

// Active reports the selected tab.
func (d *DetailView) Active() Tab {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// IsOpen reports whether the modal is still shown.
func (d *DetailView) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Select switches tabs.
func (d *DetailView) Select(t Tab) error {
	if !t.valid() {
		return fmt.Errorf("select tab: unknown tab %q", t)
	}
	d.mu.Lock()
	d.active = t
	d.mu.Unlock()
	return nil
}

// Click dispatches a click. Clicks inside the body stay inside it.
func (d *DetailView) Click(t Target) {
	switch t {
	case TargetOverlay, TargetCloseButton:
		d.Close()
	}
}

// Close dismisses the modal.
func (d *DetailView) Close() {
	d.mu.Lock()
	wasOpen := d.open
	d.open = false
	d.mu.Unlock()
	if wasOpen && d.onClose != nil {
		d.onClose()
	}
}

// ScoreBand classifies a 0-100 score for colouring.
func ScoreBand(score int) string {
	switch {
	case score >= 70:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "poor"
	}
}

// Badge is a label with a CSS class.
type Badge struct {
	Label string
	Class string
}

// UrgencyBadge returns the badge for an urgency level. Unknown levels read as
// medium.
func UrgencyBadge(u model.Urgency) Badge {
	switch u {
	case model.UrgencyImmediate:
		return Badge{Label: "INMEDIATO", Class: "urgency-immediate"}
	case model.UrgencyHigh:
		return Badge{Label: "ALTA", Class: "urgency-high"}
	case model.UrgencyLow:
		return Badge{Label: "BAJA", Class: "urgency-low"}
	default:
		return Badge{Label: "MEDIA", Class: "urgency-medium"}
	}
}

// TabLink is one entry of the tab strip.
type TabLink struct {
	Tab    Tab
	Label  string
	Active bool
}

// CostLine is one cost estimate entry.
type CostLine struct {
	Label string
	Value string
}

// InsightCard is an insight ready for display.
type InsightCard struct {
	Title           string
	Status          string
	StatusClass     string
	TechnicalDetail string
	BusinessImpact  string
	Costs           []CostLine
	Recommendation  string
}

// SummaryTab is the content of TabSummary.
type SummaryTab struct {
	Executive string
	Technical string
	TechStack []string
}

// CommercialTab is the content of TabCommercial.
type CommercialTab struct {
	BudgetSignals  []string
	NoSignals      string
	Budget         string
	BudgetKnown    bool
	DecisionMakers []string
	PainPoints     []string
}

// TalkingPoint is a numbered sales argument.
type TalkingPoint struct {
	N    int
	Text string
}

// SalesTab is the content of TabSales.
type SalesTab struct {
	TalkingPoints   []TalkingPoint
	Deal            model.DealSize
	Confidence      string
	ConfidenceClass string
	Advantages      []string
	Actions         []string
}

// DetailData is what the detail template renders. Exactly one of the tab
// fields is set.
type DetailData struct {
	Domain     string
	Industry   string
	Score      int
	Band       string
	Urgency    Badge
	Tabs       []TabLink
	Active     Tab
	AnalyzedAt string

	OverlayHref string
	CloseHref   string

	Summary    *SummaryTab
	Insights   []InsightCard
	InsightTab bool
	Commercial *CommercialTab
	Sales      *SalesTab
}

// Data builds the render model for the active tab.
func (d *DetailView) Data() DetailData {
	active := d.Active()
	rec := d.record
	out := DetailData{
		Domain:     rec.Domain,
		Industry:   rec.Industry,
		Score:      rec.Score,
		Band:       ScoreBand(rec.Score),
		Urgency:    UrgencyBadge(rec.UrgencyLevel),
		Active:     active,
		AnalyzedAt: FormatTimestamp(rec.AnalyzedAt, d.loc),

		OverlayHref: ClickPath(rec.Domain, active, TargetOverlay),
		CloseHref:   ClickPath(rec.Domain, active, TargetCloseButton),
	}
	for _, t := range Tabs {
		out.Tabs = append(out.Tabs, TabLink{Tab: t, Label: tabLabel(t, rec), Active: t == active})
	}
	switch active {
	case TabInsights:
		out.InsightTab = true
		out.Insights = insightCards(rec.Insights)
	case TabCommercial:
		out.Commercial = commercialTab(rec.CommercialIntel)
	case TabSales:
		out.Sales = salesTab(rec)
	default:
		out.Summary = &SummaryTab{
			Executive: rec.ExecutiveSummary,
			Technical: rec.TechnicalSummary,
			TechStack: rec.CommercialIntel.TechStack,
		}
	}
	return out
}

func tabLabel(t Tab, rec model.AnalysisRecord) string {
	switch t {
	case TabInsights:
		return fmt.Sprintf("Hallazgos (%d)", len(rec.Insights))
	case TabCommercial:
		return "Intel Comercial"
	case TabSales:
		return "Oportunidad"
	default:
		return "Resumen"
	}
}

func insightCards(in []model.InsightRecord) []InsightCard {
	cards := make([]InsightCard, 0, len(in))
	for _, ins := range in {
		card := InsightCard{
			Title:           ins.Title,
			Status:          strings.ToUpper(string(ins.Status)),
			StatusClass:     "status-" + statusClass(ins.Status),
			TechnicalDetail: ins.TechnicalDetail,
			BusinessImpact:  ins.BusinessImpact,
			Recommendation:  ins.Recommendation,
		}
		keys := make([]string, 0, len(ins.CostEstimate))
		for k := range ins.CostEstimate {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			card.Costs = append(card.Costs, CostLine{Label: costLabel(k), Value: ins.CostEstimate[k]})
		}
		cards = append(cards, card)
	}
	return cards
}

func statusClass(s model.InsightStatus) string {
	switch s {
	case model.StatusCritical, model.StatusWarning, model.StatusOK:
		return string(s)
	default:
		return "unknown"
	}
}

// costLabel replaces the first underscore only: "fix_cost_total" reads
// "fix cost_total".
func costLabel(key string) string {
	return strings.Replace(key, "_", " ", 1)
}

func commercialTab(ci model.CommercialIntel) *CommercialTab {
	tab := &CommercialTab{
		BudgetSignals:  ci.BudgetSignals,
		DecisionMakers: ci.DecisionMakers,
		PainPoints:     ci.PainPoints,
		Budget:         noBudgetCopy,
	}
	if len(ci.BudgetSignals) == 0 {
		tab.NoSignals = noSignalsCopy
	}
	if b := ci.EstimatedBudget; b != nil && b.Min > 0 {
		tab.BudgetKnown = true
		tab.Budget = fmt.Sprintf("$%s - $%s USD/año", humanize.Comma(int64(b.Min)), humanize.Comma(int64(b.Max)))
	}
	return tab
}

func salesTab(rec model.AnalysisRecord) *SalesTab {
	tab := &SalesTab{
		Deal:            rec.EstimatedDealSize,
		Confidence:      "MEDIA",
		ConfidenceClass: "confidence-medium",
		Advantages:      rec.CommercialIntel.CompetitiveAdvantage,
		Actions:         salesActions,
	}
	if rec.EstimatedDealSize.Confidence == "high" {
		tab.Confidence = "ALTA"
		tab.ConfidenceClass = "confidence-high"
	}
	for i, p := range rec.SalesTalkingPoints {
		tab.TalkingPoints = append(tab.TalkingPoints, TalkingPoint{N: i + 1, Text: p})
	}
	return tab
}

// WriteText prints the header, the active tab and the footer.
func (d *DetailView) WriteText(w io.Writer) error {
	data := d.Data()
	var b strings.Builder
	fmt.Fprintf(&b, "Análisis Enriquecido - %s\n", data.Domain)
	fmt.Fprintf(&b, "%s | %d/100 (%s) | %s\n", data.Industry, data.Score, data.Band, data.Urgency.Label)
	for i, t := range data.Tabs {
		if i > 0 {
			b.WriteString("  ")
		}
		if t.Active {
			fmt.Fprintf(&b, "[%s]", t.Label)
		} else {
			b.WriteString(t.Label)
		}
	}
	b.WriteString("\n\n")

	switch {
	case data.Summary != nil:
		s := data.Summary
		fmt.Fprintf(&b, "== Executive Summary ==\n%s\n\n", s.Executive)
		fmt.Fprintf(&b, "== Resumen Técnico ==\n%s\n\n", s.Technical)
		fmt.Fprintf(&b, "== Tech Stack Detectado ==\n%s\n", strings.Join(s.TechStack, ", "))
	case data.InsightTab:
		b.WriteString("== Hallazgos ==\n")
		for _, c := range data.Insights {
			fmt.Fprintf(&b, "\n%s [%s]\n", c.Title, c.Status)
			fmt.Fprintf(&b, "  Detalle Técnico: %s\n", c.TechnicalDetail)
			fmt.Fprintf(&b, "  Impacto Comercial: %s\n", c.BusinessImpact)
			if len(c.Costs) > 0 {
				b.WriteString("  Estimación de Costos:\n")
				for _, cl := range c.Costs {
					fmt.Fprintf(&b, "    %s: %s\n", cl.Label, cl.Value)
				}
			}
			fmt.Fprintf(&b, "  Recomendación: %s\n", c.Recommendation)
		}
	case data.Commercial != nil:
		c := data.Commercial
		b.WriteString("== Señales de Presupuesto ==\n")
		if c.NoSignals != "" {
			fmt.Fprintf(&b, "%s\n", c.NoSignals)
		}
		for _, s := range c.BudgetSignals {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
		fmt.Fprintf(&b, "Presupuesto Anual Estimado: %s\n\n", c.Budget)
		fmt.Fprintf(&b, "== Decision Makers ==\n%s\n\n", strings.Join(c.DecisionMakers, ", "))
		b.WriteString("== Pain Points Identificados ==\n")
		for _, p := range c.PainPoints {
			fmt.Fprintf(&b, "  - %s\n", p)
		}
	case data.Sales != nil:
		s := data.Sales
		b.WriteString("== Sales Talking Points ==\n")
		for _, tp := range s.TalkingPoints {
			fmt.Fprintf(&b, "  %d. %s\n", tp.N, tp.Text)
		}
		b.WriteString("\n== Estimación de Deal Size ==\n")
		fmt.Fprintf(&b, "  Setup: %s\n  Mensual: %s\n  Anual: %s\n  Confianza: %s\n",
			s.Deal.Setup, s.Deal.Monthly, s.Deal.Annual, s.Confidence)
		b.WriteString("\n== Ventaja Competitiva de ProspectScan ==\n")
		for _, a := range s.Advantages {
			fmt.Fprintf(&b, "  - %s\n", a)
		}
		b.WriteString("\n== Próximos Pasos ==\n")
		for _, a := range s.Actions {
			fmt.Fprintf(&b, "  ( %s )\n", a)
		}
	}

	fmt.Fprintf(&b, "\nAnalizado: %s\n", data.AnalyzedAt)
	_, err := io.WriteString(w, b.String())
	return err
}
