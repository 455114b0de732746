package widgets

import "github.com/Sumatoshi-tech/salesboard/pkg/chart"

// Axis ids of dual-axis charts.
const (
	axisLeft  = "y1"
	axisRight = "y2"
)

const scatterGrid = "rgba(255, 255, 255, 0.2)"

func hiddenLegend() *chart.Legend {
	return &chart.Legend{Display: false}
}

func topLegend() *chart.Legend {
	return &chart.Legend{Display: true, Position: chart.LegendPositionTop}
}

// currencyBars is the option set of a plain currency bar chart whose value
// axis is axis.
func currencyBars(axis string) OptionsFunc {
	return func(c Context) chart.Options {
		return chart.Options{
			Legend:  hiddenLegend(),
			Tooltip: &chart.Tooltip{Value: chart.FormatCurrencyLong},
			Scales:  map[string]chart.Scale{axis: chart.ScaleConfig(c.Pair, true)},
		}
	}
}

func horizontal(next OptionsFunc) OptionsFunc {
	return func(c Context) chart.Options {
		o := next(c)
		o.IndexAxis = chart.IndexAxisHorizontal

		return o
	}
}

func titledX(next OptionsFunc, title string) OptionsFunc {
	return func(c Context) chart.Options {
		o := next(c)
		x := o.Scales["x"]
		x.Title = title
		o.Scales["x"] = x

		return o
	}
}

func plainBars(Context) chart.Options {
	return chart.Options{
		Legend: hiddenLegend(),
		Scales: map[string]chart.Scale{"y": {BeginAtZero: true}},
	}
}

// pieOptions shows a legend with one entry per slice. Entries are filled in
// from the data by Widget.Render.
func pieOptions(value chart.Format) OptionsFunc {
	return func(Context) chart.Options {
		return chart.Options{
			Legend:  &chart.Legend{Display: true, Position: chart.DefaultLegendPos},
			Tooltip: &chart.Tooltip{Value: value},
		}
	}
}

func trendOptions(c Context) chart.Options {
	return chart.Options{
		Legend:  hiddenLegend(),
		Tooltip: &chart.Tooltip{Mode: chart.TooltipModeIndex, Value: chart.FormatCurrencyLong},
		Scales:  map[string]chart.Scale{"y": chart.ScaleConfig(c.Pair, true)},
	}
}

func peakHoursOptions(Context) chart.Options {
	return chart.Options{
		Legend:  hiddenLegend(),
		Tooltip: &chart.Tooltip{Title: chart.FormatHour, Value: chart.FormatCount},
		Scales: map[string]chart.Scale{
			"y": {BeginAtZero: true},
			"x": {Title: "Hour of Day"},
		},
	}
}

func discountImpactOptions(c Context) chart.Options {
	left := chart.ScaleConfig(c.Pair, true)
	left.Type = chart.ScaleTypeLinear
	left.Position = chart.ScalePositionLeft
	left.Title = "Amount (USD)"

	return chart.Options{
		Legend:  topLegend(),
		Tooltip: &chart.Tooltip{Value: chart.FormatCurrencyLong},
		Scales: map[string]chart.Scale{
			axisLeft: left,
			axisRight: {
				Type:            chart.ScaleTypeLinear,
				Position:        chart.ScalePositionRight,
				BeginAtZero:     true,
				Title:           "Conversion Rate",
				HideGridOnChart: true,
			},
		},
	}
}

func salesByDayOptions(c Context) chart.Options {
	left := chart.ScaleConfig(c.Pair, true)
	left.Position = chart.ScalePositionLeft
	left.Title = "Average Sales (USD)"

	right := chart.ScaleConfig(c.Pair, true)
	right.Position = chart.ScalePositionRight
	right.Title = "Total Sales (USD)"
	right.HideGridOnChart = true

	return chart.Options{
		Legend:  topLegend(),
		Tooltip: &chart.Tooltip{Value: chart.FormatCurrencyLong},
		Scales:  map[string]chart.Scale{axisLeft: left, axisRight: right},
	}
}

func visitFrequencyOptions(c Context) chart.Options {
	items := make([]chart.LegendItem, 0, len(RecencyBins)+1)

	for _, bin := range RecencyBins {
		items = append(items, chart.LegendItem{Text: bin.Label, Fill: bin.Color, Stroke: scatterBorder})
	}

	items = append(items, chart.LegendItem{
		Text:      "Trend Line",
		Fill:      "transparent",
		Stroke:    trendLineColor,
		LineWidth: trendLineWidth,
	})

	return chart.Options{
		Legend:  &chart.Legend{Display: true, Position: chart.LegendPositionTop, Items: items},
		Tooltip: &chart.Tooltip{Value: chart.FormatFreqRecency},
		Scales: map[string]chart.Scale{
			"x": {Title: "Purchase Frequency", TickColor: c.Pair.Text, GridColor: scatterGrid},
			"y": {Title: "Days Since Last Visit", TickColor: c.Pair.Text, GridColor: scatterGrid},
		},
	}
}

// LegendItems generates one legend entry per slice of a circular chart.
func LegendItems(spec chart.Spec) []chart.LegendItem {
	primary, ok := spec.Primary()
	if !ok {
		return nil
	}

	items := make([]chart.LegendItem, len(spec.Labels))

	for i, label := range spec.Labels {
		items[i] = chart.LegendItem{
			Text:      label,
			Fill:      primary.FillAt(i),
			Stroke:    primary.BorderAt(i),
			LineWidth: 1,
		}
	}

	return items
}
