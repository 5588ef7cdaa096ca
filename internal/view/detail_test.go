package view

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/prospectscan/internal/model"
)

func loadRecord(t *testing.T) model.AnalysisRecord {
	t.Helper()
	data, err := os.ReadFile("../model/testdata/analysis.json")
	require.NoError(t, err)
	rec, err := model.DecodeAnalysis(data)
	require.NoError(t, err)
	return *rec
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("")
	require.NoError(t, err)
	assert.Equal(t, TabSummary, tab)

	tab, err = ParseTab("sales")
	require.NoError(t, err)
	assert.Equal(t, TabSales, tab)

	_, err = ParseTab("Sales")
	assert.Error(t, err)
}

func TestDetailViewTabsRenderExactlyOneSection(t *testing.T) {
	d := NewDetailView(loadRecord(t), time.UTC, nil)
	assert.Equal(t, TabSummary, d.Active())

	for _, tab := range Tabs {
		require.NoError(t, d.Select(tab))
		data := d.Data()
		set := 0
		if data.Summary != nil {
			set++
		}
		if data.InsightTab {
			set++
		}
		if data.Commercial != nil {
			set++
		}
		if data.Sales != nil {
			set++
		}
		assert.Equal(t, 1, set, "tab %s", tab)

		active := 0
		for _, l := range data.Tabs {
			if l.Active {
				active++
				assert.Equal(t, tab, l.Tab)
			}
		}
		assert.Equal(t, 1, active)
	}
}

func TestDetailViewSelectRejectsUnknownTab(t *testing.T) {
	d := NewDetailView(loadRecord(t), time.UTC, nil)
	require.NoError(t, d.Select(TabCommercial))
	assert.Error(t, d.Select("pricing"))
	assert.Equal(t, TabCommercial, d.Active())
}

func TestDetailViewClickTargets(t *testing.T) {
	closes := 0
	d := NewDetailView(loadRecord(t), time.UTC, func() { closes++ })

	d.Click(TargetBody)
	assert.True(t, d.IsOpen())
	assert.Zero(t, closes)

	d.Click(TargetOverlay)
	assert.False(t, d.IsOpen())
	assert.Equal(t, 1, closes)

	d.Click(TargetCloseButton)
	assert.Equal(t, 1, closes)
}

func TestDetailViewCloseButton(t *testing.T) {
	closes := 0
	d := NewDetailView(loadRecord(t), time.UTC, func() { closes++ })
	d.Click(TargetCloseButton)
	assert.False(t, d.IsOpen())
	assert.Equal(t, 1, closes)
}

func TestParseTarget(t *testing.T) {
	for _, want := range []Target{TargetOverlay, TargetBody, TargetCloseButton} {
		got, err := ParseTarget(string(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseTarget("header")
	assert.Error(t, err)
	_, err = ParseTarget("")
	assert.Error(t, err)
}

func TestClickPath(t *testing.T) {
	assert.Equal(t, "/heatmap/acme.com/click?tab=insights&target=overlay", ClickPath("acme.com", TabInsights, TargetOverlay))
	assert.Equal(t, "/heatmap/acme.com/click?target=body", ClickPath("acme.com", "", TargetBody))

	d := NewDetailView(loadRecord(t), time.UTC, nil)
	require.NoError(t, d.Select(TabCommercial))
	data := d.Data()
	assert.Equal(t, ClickPath(data.Domain, TabCommercial, TargetOverlay), data.OverlayHref)
	assert.Equal(t, ClickPath(data.Domain, TabCommercial, TargetCloseButton), data.CloseHref)
}

func TestScoreBand(t *testing.T) {
	assert.Equal(t, "good", ScoreBand(70))
	assert.Equal(t, "good", ScoreBand(100))
	assert.Equal(t, "fair", ScoreBand(69))
	assert.Equal(t, "fair", ScoreBand(40))
	assert.Equal(t, "poor", ScoreBand(39))
	assert.Equal(t, "poor", ScoreBand(0))
}

func TestUrgencyBadge(t *testing.T) {
	assert.Equal(t, "INMEDIATO", UrgencyBadge(model.UrgencyImmediate).Label)
	assert.Equal(t, "ALTA", UrgencyBadge(model.UrgencyHigh).Label)
	assert.Equal(t, "MEDIA", UrgencyBadge(model.UrgencyMedium).Label)
	assert.Equal(t, "BAJA", UrgencyBadge(model.UrgencyLow).Label)
	assert.Equal(t, "MEDIA", UrgencyBadge("whenever").Label)
}

func TestCostLabelReplacesFirstUnderscore(t *testing.T) {
	assert.Equal(t, "fix cost", costLabel("fix_cost"))
	assert.Equal(t, "potential loss_total", costLabel("potential_loss_total"))
	assert.Equal(t, "total", costLabel("total"))
}

func TestCommercialTabBudget(t *testing.T) {
	tab := commercialTab(model.CommercialIntel{EstimatedBudget: &model.Budget{Min: 18500, Max: 65000}})
	assert.True(t, tab.BudgetKnown)
	assert.Equal(t, "$18,500 - $65,000 USD/año", tab.Budget)
	assert.Equal(t, noSignalsCopy, tab.NoSignals)

	tab = commercialTab(model.CommercialIntel{EstimatedBudget: &model.Budget{Min: 0, Max: 5000}})
	assert.False(t, tab.BudgetKnown)
	assert.Equal(t, noBudgetCopy, tab.Budget)

	tab = commercialTab(model.CommercialIntel{BudgetSignals: []string{"WAF"}})
	assert.False(t, tab.BudgetKnown)
	assert.Empty(t, tab.NoSignals)
}

func TestSalesTabConfidence(t *testing.T) {
	rec := loadRecord(t)
	assert.Equal(t, "ALTA", salesTab(rec).Confidence)
	rec.EstimatedDealSize.Confidence = "low"
	assert.Equal(t, "MEDIA", salesTab(rec).Confidence)
	assert.Len(t, salesTab(rec).Actions, 3)
}

func TestDetailViewText(t *testing.T) {
	rec := loadRecord(t)
	d := NewDetailView(rec, time.UTC, nil)

	var buf bytes.Buffer
	require.NoError(t, d.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "chedraui.com.mx")
	assert.Contains(t, out, "38/100 (poor)")
	assert.Contains(t, out, "INMEDIATO")
	assert.Contains(t, out, "[Resumen]")
	assert.Contains(t, out, "Executive Summary")
	assert.NotContains(t, out, "Sales Talking Points")
	assert.Contains(t, out, "Analizado: 15/01/2026, 17:30:00")

	require.NoError(t, d.Select(TabInsights))
	buf.Reset()
	require.NoError(t, d.WriteText(&buf))
	out = buf.String()
	assert.Contains(t, out, "fix cost:")
	assert.Contains(t, out, "potential loss:")
	assert.NotContains(t, out, "Executive Summary")
	assert.Equal(t, len(rec.Insights), strings.Count(out, "Recomendación:"))
}

func TestHeatmapPageWithDetail(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	d := NewDetailView(loadRecord(t), time.UTC, nil)
	require.NoError(t, d.Select(TabSales))
	data := d.Data()

	var buf bytes.Buffer
	require.NoError(t, pages.Render(&buf, PageHeatmap, Page{
		Title: "Heatmap",
		Data: HeatmapPage{
			Rows:   NewHeatmapRows([]model.HeatmapDomain{{Domain: "chedraui.com.mx", Score: 38}}),
			Detail: &data,
		},
	}))
	html := buf.String()
	assert.Equal(t, 1, strings.Count(html, `class="ea-tab-content"`))
	assert.Contains(t, html, `data-tab="sales"`)
	assert.Contains(t, html, `href="/heatmap/chedraui.com.mx?tab=insights"`)
	assert.Contains(t, html, `class="ea-overlay-close" href="/heatmap/chedraui.com.mx/click?tab=sales`)
	assert.Contains(t, html, `target=overlay"`)
	assert.Contains(t, html, `target=close"`)
	assert.Equal(t, 3, strings.Count(html, `class="ea-action-btn"`))
}

func TestWriteHeatmapPNG(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHeatmapPNG(&buf, []model.HeatmapDomain{
		{Domain: "a.com", Score: 82},
		{Domain: "b.com", Score: 55},
		{Domain: "c.com", Score: 12},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	assert.Error(t, WriteHeatmapPNG(&bytes.Buffer{}, nil))
}
