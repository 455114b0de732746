package chart

import (
	"fmt"
	"io"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Rendering geometry of an interactive chart.
const (
	renderWidth    = "100%"
	renderHeight   = "400px"
	areaOpacity    = 0.1
	dataLabelSize  = 14
	pieRadius      = "65%"
	doughnutInner  = "40%"
	doughnutOuter  = "70%"
	defaultPointPx = 4
	tooltipItem    = "item"
	tooltipAxis    = "axis"
	axisTypeValue  = "value"
	legendVertical = "vertical"
)

type renderer interface {
	Render(w io.Writer) error
}

// Render writes the chart as a standalone go-echarts HTML document.
func (h *Handle) Render(w io.Writer) error {
	h.mu.RLock()
	r := buildEChart(h.id, h.kind, h.spec, h.options)
	h.mu.RUnlock()

	if err := r.Render(w); err != nil {
		return fmt.Errorf("render chart %s: %w", h.id, err)
	}

	return nil
}

func buildEChart(id string, kind Kind, spec Spec, o Options) renderer {
	switch kind {
	case KindPie, KindDoughnut:
		return buildPie(id, kind, spec, o)
	case KindScatter:
		return buildScatter(id, spec, o)
	case KindLine:
		return buildLine(id, spec, o)
	case KindBar:
		return buildBar(id, spec, o)
	default:
		return buildBar(id, spec, o)
	}
}

func globalOpts(id string, o Options, series []Dataset) []charts.GlobalOpts {
	trigger := tooltipItem
	if o.Tooltip != nil && o.Tooltip.Mode == TooltipModeIndex {
		trigger = tooltipAxis
	}

	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:         id,
			Width:           renderWidth,
			Height:          renderHeight,
			BackgroundColor: "transparent",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   trigger,
			Formatter: tooltipFormatter(o, series),
		}),
		charts.WithLegendOpts(legendOpts(o.Legend)),
	}
}

func legendOpts(l *Legend) opts.Legend {
	if l == nil {
		return opts.Legend{Show: opts.Bool(false)}
	}

	legend := opts.Legend{
		Show:      opts.Bool(l.Display),
		TextStyle: &opts.TextStyle{Color: l.LabelColor},
	}

	if l.Position == LegendPositionTop {
		legend.Top = "0"
		legend.Left = "center"
	} else {
		legend.Top = "middle"
		legend.Left = "right"
		legend.Orient = legendVertical
	}

	if len(l.Items) > 0 {
		names := make([]string, len(l.Items))
		for i, item := range l.Items {
			names[i] = item.Text
		}

		legend.Data = names
	}

	return legend
}

func categoryAxis(s Scale) opts.XAxis {
	return opts.XAxis{
		Name:      s.Title,
		AxisLabel: &opts.AxisLabel{Color: s.TickColor},
	}
}

func valueYAxis(s Scale) opts.YAxis {
	return opts.YAxis{
		Name:      s.Title,
		AxisLabel: &opts.AxisLabel{Color: s.TickColor, Formatter: axisFormatter(s)},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(!s.HideGridOnChart),
			LineStyle: &opts.LineStyle{Color: s.GridColor},
		},
	}
}

// valueAxisIDs lists the declared value axes, primary first.
func valueAxisIDs(o Options) []string {
	var ids []string

	for id := range o.Scales {
		if id != "x" {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)

	return ids
}

func axisIndex(ids []string, axisID string) int {
	if i := slices.Index(ids, axisID); i > 0 {
		return i
	}

	return 0
}

func buildBar(id string, spec Spec, o Options) renderer {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(id, o, barSeriesOrder(spec))...)

	horizontal := o.IndexAxis == IndexAxisHorizontal
	valueKey := "y"
	if horizontal {
		valueKey = "x"
	}

	ids := valueAxisIDs(o)
	primary := o.Scales[valueKey]

	if len(ids) > 1 {
		primary = o.Scales[ids[0]]
	}

	bar.SetGlobalOptions(
		charts.WithXAxisOpts(categoryAxis(o.Scales["category"])),
		charts.WithYAxisOpts(valueYAxis(primary)),
	)

	for _, extra := range ids[min(1, len(ids)):] {
		bar.ExtendYAxis(valueYAxis(o.Scales[extra]))
	}

	bar.SetXAxis(spec.Labels)

	var overlay *charts.Line

	for _, ds := range spec.Datasets {
		if ds.LegendOnly {
			continue
		}

		if ds.Type == KindLine {
			if overlay == nil {
				overlay = charts.NewLine()
				overlay.SetXAxis(spec.Labels)
			}

			overlay.AddSeries(ds.Label, lineData(ds), lineSeriesOpts(ds, axisIndex(ids, ds.AxisID))...)

			continue
		}

		bar.AddSeries(ds.Label, barData(ds), charts.WithBarChartOpts(opts.BarChart{
			YAxisIndex: axisIndex(ids, ds.AxisID),
		}))
	}

	if overlay != nil {
		bar.Overlap(overlay)
	}

	if horizontal {
		bar.XYReversal()
	}

	return bar
}

// barSeriesOrder lists the drawn datasets of a bar chart in echarts series
// order: bars first, then the overlaid lines.
func barSeriesOrder(spec Spec) []Dataset {
	var bars, lines []Dataset

	for _, ds := range drawn(spec.Datasets) {
		if ds.Type == KindLine {
			lines = append(lines, ds)
		} else {
			bars = append(bars, ds)
		}
	}

	return append(bars, lines...)
}

func drawn(datasets []Dataset) []Dataset {
	out := make([]Dataset, 0, len(datasets))

	for _, ds := range datasets {
		if !ds.LegendOnly {
			out = append(out, ds)
		}
	}

	return out
}

func barData(ds Dataset) []opts.BarData {
	data := make([]opts.BarData, len(ds.Values))

	for i, v := range ds.Values {
		data[i] = opts.BarData{
			Value: v,
			ItemStyle: &opts.ItemStyle{
				Color:       ds.FillAt(i),
				BorderColor: ds.BorderAt(i),
				BorderWidth: float32(ds.BorderWidth),
			},
		}
	}

	return data
}

func lineData(ds Dataset) []opts.LineData {
	if ds.Points != nil {
		data := make([]opts.LineData, len(ds.Points))
		for i, p := range ds.Points {
			data[i] = opts.LineData{Value: []any{p.X, p.Y}}
		}

		return data
	}

	data := make([]opts.LineData, len(ds.Values))
	for i, v := range ds.Values {
		data[i] = opts.LineData{Value: v}
	}

	return data
}

func lineSeriesOpts(ds Dataset, yAxis int) []charts.SeriesOpts {
	color := ds.BorderAt(0)

	series := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(ds.Tension > 0),
			YAxisIndex: yAxis,
			ShowSymbol: opts.Bool(ds.PointRadius != 0),
		}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: float32(max(ds.BorderWidth, 1))}),
	}

	if ds.Area {
		series = append(series, charts.WithAreaStyleOpts(opts.AreaStyle{
			Opacity: opts.Float(areaOpacity),
		}))
	}

	return series
}

func buildLine(id string, spec Spec, o Options) renderer {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(id, o, drawn(spec.Datasets))...)
	line.SetGlobalOptions(
		charts.WithXAxisOpts(categoryAxis(o.Scales["x"])),
		charts.WithYAxisOpts(valueYAxis(o.Scales["y"])),
	)
	line.SetXAxis(spec.Labels)

	for _, ds := range spec.Datasets {
		if ds.LegendOnly {
			continue
		}

		line.AddSeries(ds.Label, lineData(ds), lineSeriesOpts(ds, 0)...)
	}

	return line
}

func buildPie(id string, kind Kind, spec Spec, o Options) renderer {
	primary, _ := spec.Primary()

	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOpts(id, o, []Dataset{primary})...)
	data := make([]opts.PieData, len(primary.Values))

	for i, v := range primary.Values {
		data[i] = opts.PieData{
			Name:  labelAt(spec.Labels, i),
			Value: v,
			ItemStyle: &opts.ItemStyle{
				Color:       primary.FillAt(i),
				BorderColor: primary.BorderAt(i),
			},
		}
	}

	var radius any = pieRadius
	if kind == KindDoughnut {
		radius = []string{doughnutInner, doughnutOuter}
	}

	label := opts.Label{Show: opts.Bool(false)}
	if o.DataLabels != nil && o.DataLabels.Display {
		label = opts.Label{
			Show:      opts.Bool(true),
			Position:  "inside",
			Formatter: dataLabelFormatter(o.DataLabels, primary),
			Color:     o.DataLabels.Color,
			FontSize:  dataLabelSize,
		}
	}

	pie.AddSeries(primary.Label, data,
		charts.WithLabelOpts(label),
		charts.WithPieChartOpts(opts.PieChart{Radius: radius}),
	)

	return pie
}

// buildScatter draws the point dataset as one series per point colour, so
// colour-coded buckets appear under the names of their legend-only datasets.
func buildScatter(id string, spec Spec, o Options) renderer {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(globalOpts(id, o, nil)...)
	scatter.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{
			Name:      o.Scales["x"].Title,
			Type:      axisTypeValue,
			AxisLabel: &opts.AxisLabel{Color: o.Scales["x"].TickColor, Formatter: axisFormatter(o.Scales["x"])},
		}),
		charts.WithYAxisOpts(valueYAxis(o.Scales["y"])),
	)

	names := make(map[string]string)

	for _, ds := range spec.Datasets {
		if ds.LegendOnly {
			names[ds.FillAt(0)] = ds.Label
		}
	}

	var trend *charts.Line

	for _, ds := range spec.Datasets {
		switch {
		case ds.LegendOnly:
			continue
		case ds.Type == KindLine:
			if trend == nil {
				trend = charts.NewLine()
			}

			trend.AddSeries(ds.Label, lineData(ds), lineSeriesOpts(ds, 0)...)
		default:
			addScatterGroups(scatter, ds, names)
		}
	}

	if trend != nil {
		scatter.Overlap(trend)
	}

	return scatter
}

func addScatterGroups(scatter *charts.Scatter, ds Dataset, names map[string]string) {
	var order []string

	groups := make(map[string][]opts.ScatterData)

	for i, p := range ds.Points {
		color := ds.FillAt(i)
		if _, seen := groups[color]; !seen {
			order = append(order, color)
		}

		groups[color] = append(groups[color], opts.ScatterData{
			Value:      []any{p.X, p.Y},
			SymbolSize: int(max(ds.PointRadius*2, defaultPointPx)),
		})
	}

	for _, color := range order {
		name, ok := names[color]
		if !ok {
			name = ds.Label
		}

		scatter.AddSeries(name, groups[color],
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color, BorderColor: ds.BorderAt(0)}),
		)
	}
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}

	return ""
}
