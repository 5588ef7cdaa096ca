package view

import (
	"errors"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/dharsanguruparan/prospectscan/internal/model"
)

var bandColors = map[string]drawing.Color{
	"good": drawing.ColorFromHex("10b981"),
	"fair": drawing.ColorFromHex("f59e0b"),
	"poor": drawing.ColorFromHex("ef4444"),
}

// WriteHeatmapPNG draws one bar per domain, coloured by score band.
func WriteHeatmapPNG(w io.Writer, domains []model.HeatmapDomain) error {
	if len(domains) == 0 {
		return errors.New("heatmap chart: no domains")
	}
	bars := make([]chart.Value, 0, len(domains))
	for _, d := range domains {
		col := bandColors[ScoreBand(d.Score)]
		bars = append(bars, chart.Value{
			Label: d.Domain,
			Value: float64(d.Score),
			Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
		})
	}
	bc := chart.BarChart{
		Title:      "Score por dominio",
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		Width:      160 + 100*len(bars),
		Height:     420,
		BarWidth:   60,
		BarSpacing: 40,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}
