package chart_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/salesboard/pkg/chart"
)

func TestHandle_RenderKinds(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, "bar", "line", "pie", "doughnut", "scatter", "dual")
	pair := engine.Pair()

	handles := []*chart.Handle{
		engine.Upsert("bar", chart.KindBar, barSpec(1, 2, 3), chart.Options{
			IndexAxis: chart.IndexAxisHorizontal,
			Scales:    map[string]chart.Scale{"x": chart.ScaleConfig(pair, true)},
		}),
		engine.Upsert("line", chart.KindLine, barSpec(4, 5), chart.Options{}),
		engine.Upsert("pie", chart.KindPie, barSpec(10, 30, 60), chart.Options{}),
		engine.Upsert("doughnut", chart.KindDoughnut, barSpec(1, 1), chart.Options{}),
		engine.Upsert("scatter", chart.KindScatter, chart.Spec{
			Datasets: []chart.Dataset{
				{Label: "Visits", Points: []chart.Point{{X: 1, Y: 50}, {X: 2, Y: 700}}, Fill: []string{"#FF0000", "#FFFF00"}},
				{Label: "Trend Line", Type: chart.KindLine, Points: []chart.Point{{X: 1, Y: 10}, {X: 2, Y: 20}}},
				{Label: "Very Recent", LegendOnly: true, Fill: []string{"#FF0000"}},
			},
		}, chart.Options{}),
		engine.Upsert("dual", chart.KindBar, chart.Spec{
			Labels: []string{"Mon", "Tue"},
			Datasets: []chart.Dataset{
				{Label: "Average", Values: []float64{1, 2}, AxisID: "y1"},
				{Label: "Rate", Values: []float64{3, 4}, AxisID: "y2", Type: chart.KindLine},
			},
		}, chart.Options{Scales: map[string]chart.Scale{
			"y1": chart.ScaleConfig(pair, true),
			"y2": {Position: chart.ScalePositionRight, HideGridOnChart: true},
		}}),
	}

	for _, h := range handles {
		require.NotNil(t, h)

		var buf bytes.Buffer

		require.NoError(t, h.Render(&buf), h.ID())
		assert.Contains(t, buf.String(), "echarts", h.ID())
	}
}

func TestHandle_Snapshot(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, "bar", "pie", "line")

	handles := []*chart.Handle{
		engine.Upsert("bar", chart.KindBar, barSpec(1, 2, 3), chart.Options{}),
		engine.Upsert("pie", chart.KindPie, barSpec(10, 30, 60), chart.Options{}),
		engine.Upsert("line", chart.KindLine, barSpec(4, 5, 9), chart.Options{}),
	}

	for _, h := range handles {
		require.NotNil(t, h)

		var buf bytes.Buffer

		require.NoError(t, h.Snapshot(&buf, 400, 300), h.ID())

		img, err := png.Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, 400, img.Bounds().Dx())
	}
}

func TestHandle_SnapshotTooSmall(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, "bar")
	h := engine.Upsert("bar", chart.KindBar, barSpec(1), chart.Options{})
	require.NotNil(t, h)

	err := h.Snapshot(&bytes.Buffer{}, 10, 10)
	require.ErrorIs(t, err, chart.ErrSnapshotSize)
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	c := chart.ParseColor("#018786")
	assert.Equal(t, [4]uint8{0x01, 0x87, 0x86, 0xff}, [4]uint8{c.R, c.G, c.B, c.A})

	c = chart.ParseColor("rgba(189, 43, 160, 0.1)")
	assert.Equal(t, [3]uint8{189, 43, 160}, [3]uint8{c.R, c.G, c.B})
	assert.Equal(t, uint8(25), c.A)

	c = chart.ParseColor("#ff06ee2a")
	assert.Equal(t, uint8(0x2a), c.A)

	assert.Zero(t, chart.ParseColor("tomato").A)
}

func TestHandle_TooltipPoints(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, "scatter")

	h := engine.Upsert("scatter", chart.KindScatter, chart.Spec{
		Datasets: []chart.Dataset{{Label: "Visits", Points: []chart.Point{{X: 3, Y: 120}}}},
	}, chart.Options{Tooltip: &chart.Tooltip{Value: chart.FormatFreqRecency}})
	require.NotNil(t, h)

	assert.Equal(t, "Frequency: 3, Recency: 120 days", h.TooltipText(0, 0))
	assert.Empty(t, h.TooltipText(0, 1))
}

func TestHandle_TooltipTitleHour(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, "peakHoursChart")

	h := engine.Upsert("peakHoursChart", chart.KindLine, chart.Spec{
		Labels:   []string{"9", "10"},
		Datasets: []chart.Dataset{{Label: "Number of Purchases", Values: []float64{1200, 5}}},
	}, chart.Options{Tooltip: &chart.Tooltip{Title: chart.FormatHour, Value: chart.FormatCount}})
	require.NotNil(t, h)

	assert.Equal(t, "Hour: 9:00", h.TooltipTitle(0))
	assert.Equal(t, "Number of Purchases: 1,200", h.TooltipText(0, 0))
}

func renderHTML(t *testing.T, h *chart.Handle) string {
	t.Helper()
	require.NotNil(t, h)

	var buf bytes.Buffer

	require.NoError(t, h.Render(&buf))

	return buf.String()
}

func TestHandle_RenderPieLabelsOneDecimal(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, "genderChart")

	h := engine.Upsert("genderChart", chart.KindPie, barSpec(1, 1, 1), chart.Options{
		DataLabels: &chart.DataLabels{Display: true, Format: chart.FormatPercentOfTotal},
		Tooltip:    &chart.Tooltip{Value: chart.FormatPercentOfTotal},
	})

	label, ok := h.DataLabel(0)
	require.True(t, ok)
	assert.Equal(t, "33.3%", label)

	html := renderHTML(t, h)
	assert.NotContains(t, html, `"{d}%"`)
	assert.Contains(t, html, `"formatter":function(p){`)
	assert.Contains(t, html, `(n/3*100).toFixed(1)+'%'`)
}

func TestHandle_RenderCurrencyTicks(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, "storeChart")
	pair := engine.Pair()

	h := engine.Upsert("storeChart", chart.KindBar, barSpec(10000, 30000), chart.Options{
		Scales:  map[string]chart.Scale{"y": chart.ScaleConfig(pair, true)},
		Tooltip: &chart.Tooltip{Value: chart.FormatCurrencyLong},
	})

	html := renderHTML(t, h)
	assert.Contains(t, html, `"formatter":function(n){return '$'+`)
	assert.Contains(t, html, "toFixed(1)+'K'")
	assert.Contains(t, html, `(n<0?'-$':'$')+Math.round(Math.abs(n)).toLocaleString('en-US')`)
}

func TestHandle_RenderAxisTooltipTitle(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, "peakHoursChart")

	h := engine.Upsert("peakHoursChart", chart.KindLine, barSpec(1200, 5), chart.Options{
		Tooltip: &chart.Tooltip{Mode: chart.TooltipModeIndex, Title: chart.FormatHour, Value: chart.FormatCount},
	})

	html := renderHTML(t, h)
	assert.Contains(t, html, `"trigger":"axis"`)
	assert.Contains(t, html, `'Hour: '+ps[0].name+':00'`)
	assert.Contains(t, html, `(n<0?'-':'')+Math.round(Math.abs(n)).toLocaleString('en-US')`)
}

func TestHandle_RenderWithoutTickFormat(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, "line")

	html := renderHTML(t, engine.Upsert("line", chart.KindLine, barSpec(4, 5), chart.Options{}))
	assert.NotContains(t, html, "function(n)")
}
