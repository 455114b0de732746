package widgets

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/salesboard/pkg/chart"
	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
	"github.com/Sumatoshi-tech/salesboard/pkg/stats"
	"github.com/Sumatoshi-tech/salesboard/pkg/theme"
)

// Line and bar styling shared by several widgets.
const (
	trendTension    = 0.4
	linePointRadius = 4
	barBorderWidth  = 1
	trendLineWidth  = 2
	scatterRadius   = 2.5
	scatterBorderW  = 0.5
	scatterBorder   = "rgba(255, 255, 255, 0.4)"
	trendLineColor  = "#FFFFFF"
)

// ErrShape is returned when a metric does not have the structure its widget expects.
var ErrShape = errors.New("unexpected metric shape")

// styleFunc colours a single-dataset chart with n entries.
type styleFunc func(ds *chart.Dataset, n int)

func barStyle(ds *chart.Dataset, _ int) {
	ds.Fill = []string{theme.Accent1}
	ds.Border = []string{theme.Primary}
	ds.BorderWidth = barBorderWidth
}

func sliceStyle(ds *chart.Dataset, n int) {
	ds.Fill = theme.Cycle(theme.Bins, n)
	ds.Border = theme.Cycle(theme.Bins, n)
}

func trendStyle(ds *chart.Dataset, border, fill string) {
	ds.Border = []string{border}
	ds.Fill = []string{fill}
	ds.Area = true
	ds.Tension = trendTension
	ds.PointRadius = linePointRadius
}

// categorical shapes a category to number metric into one dataset.
func categorical(key, label string, order payload.Order, style styleFunc) ShapeFunc {
	return func(p payload.Payload, _ Context) (chart.Spec, error) {
		series, err := p.Series(key)
		if err != nil {
			return chart.Spec{}, err
		}

		series = series.Sorted(order)

		ds := chart.Dataset{Label: label, Values: series.Values()}
		style(&ds, len(series))

		return chart.Spec{Labels: series.Keys(), Datasets: []chart.Dataset{ds}}, nil
	}
}

func salesTrend(p payload.Payload, c Context) (chart.Spec, error) {
	key, title := KeySalesByMonth, "Sales by Month"
	if c.Period == PeriodYear {
		key, title = KeySalesByYear, "Sales by Year"
	}

	var series payload.Series

	if p.Has(key) {
		var err error

		series, err = p.Series(key)
		if err != nil {
			return chart.Spec{}, err
		}
	}

	ds := chart.Dataset{Label: title, Values: series.Values()}
	trendStyle(&ds, theme.Trend, theme.TrendFill)

	return chart.Spec{Labels: series.Keys(), Datasets: []chart.Dataset{ds}}, nil
}

func peakHours(p payload.Payload, _ Context) (chart.Spec, error) {
	series, err := p.Series(KeyPeakHours)
	if err != nil {
		return chart.Spec{}, err
	}

	ds := chart.Dataset{Label: "Number of Purchases", Values: series.Values()}
	trendStyle(&ds, theme.Trend, theme.TrendFill)

	return chart.Spec{Labels: series.Keys(), Datasets: []chart.Dataset{ds}}, nil
}

type crossSellPair struct {
	Total         float64            `json:"total"`
	Contributions map[string]float64 `json:"contributions"`
}

func crossSell(p payload.Payload, _ Context) (chart.Spec, error) {
	raw, _ := p.Raw(KeyCrossSell)

	pairs, err := payload.DecodeOrdered[crossSellPair](raw)
	if err != nil {
		return chart.Spec{}, fmt.Errorf("%w: %w", ErrShape, err)
	}

	slices.SortStableFunc(pairs, func(a, b payload.Entry[crossSellPair]) int {
		return cmp.Compare(a.Value.Total, b.Value.Total)
	})

	labels := make([]string, len(pairs))
	totals := make([]float64, len(pairs))

	for i, pair := range pairs {
		labels[i] = pair.Key
		totals[i] = pair.Value.Total
	}

	ds := chart.Dataset{Label: "Cross-Sell & Upsell Amount", Values: totals}
	barStyle(&ds, len(pairs))

	return chart.Spec{Labels: labels, Datasets: []chart.Dataset{ds}}, nil
}

type discountStats struct {
	Mean           float64 `json:"mean"`
	Sum            float64 `json:"sum"`
	Count          float64 `json:"count"`
	ConversionRate float64 `json:"conversion_rate"`
}

func discountImpact(p payload.Payload, _ Context) (chart.Spec, error) {
	raw, _ := p.Raw(KeyDiscountImpact)

	rows, err := payload.DecodeOrdered[discountStats](raw)
	if err != nil {
		return chart.Spec{}, fmt.Errorf("%w: %w", ErrShape, err)
	}

	labels := make([]string, len(rows))
	means := make([]float64, len(rows))
	sums := make([]float64, len(rows))
	rates := make([]float64, len(rows))

	for i, row := range rows {
		labels[i] = row.Key
		means[i] = row.Value.Mean
		sums[i] = row.Value.Sum
		rates[i] = row.Value.ConversionRate
	}

	bar := func(label string, values []float64, color string) chart.Dataset {
		return chart.Dataset{
			Label:       label,
			Values:      values,
			Fill:        []string{color},
			Border:      []string{color},
			BorderWidth: barBorderWidth,
			AxisID:      axisLeft,
		}
	}

	return chart.Spec{
		Labels: labels,
		Datasets: []chart.Dataset{
			bar("Mean Purchase Amount (USD)", means, theme.Bins[0]),
			bar("Total Purchase Amount (USD)", sums, theme.Bins[1]),
			{
				Label:       "Conversion Rate",
				Values:      rates,
				Fill:        []string{theme.Accent3},
				Border:      []string{theme.Accent3},
				BorderWidth: barBorderWidth,
				Type:        chart.KindLine,
				AxisID:      axisRight,
				Format:      chart.FormatPercent,
			},
		},
	}, nil
}

type dayStats struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
}

func salesByDay(p payload.Payload, _ Context) (chart.Spec, error) {
	raw, _ := p.Raw(KeySalesByDay)

	rows, err := payload.DecodeOrdered[dayStats](raw)
	if err != nil {
		return chart.Spec{}, fmt.Errorf("%w: %w", ErrShape, err)
	}

	days := make([]string, len(rows))
	averages := make([]float64, len(rows))
	totals := make([]float64, len(rows))

	for i, row := range rows {
		days[i] = row.Key
		averages[i] = row.Value.Average
		totals[i] = row.Value.Total
	}

	return chart.Spec{
		Labels: days,
		Datasets: []chart.Dataset{
			{
				Label:       "Average Sales",
				Values:      averages,
				Fill:        []string{theme.Accent1},
				Border:      []string{theme.Primary},
				BorderWidth: barBorderWidth,
				AxisID:      axisLeft,
			},
			{
				Label:       "Total Sales",
				Values:      totals,
				Fill:        []string{theme.Accent4},
				Border:      []string{theme.Accent4},
				BorderWidth: barBorderWidth,
				AxisID:      axisRight,
			},
		},
	}, nil
}

// RecencyBin is one colour bucket of days since the last visit.
type RecencyBin struct {
	Max   float64
	Color string
	Label string
}

// RecencyBins are the recency buckets of the visit frequency scatter. The
// last bucket is open ended.
var RecencyBins = []RecencyBin{
	{Max: 100, Color: "#FF0000", Label: "Very Recent (0-100 days)"},
	{Max: 500, Color: "#FFA500", Label: "Recent (101-500 days)"},
	{Max: 1000, Color: "#FFFF00", Label: "Moderate (501-1000 days)"},
	{Max: 2000, Color: "#00FF00", Label: "Old (1001-2000 days)"},
	{Max: 0, Color: "#00FFFF", Label: "Very Old (2000+ days)"},
}

// RecencyColor returns the bucket colour of recency.
func RecencyColor(recency float64) string {
	last := len(RecencyBins) - 1

	for _, bin := range RecencyBins[:last] {
		if recency <= bin.Max {
			return bin.Color
		}
	}

	return RecencyBins[last].Color
}

type visitFrequencyData struct {
	Frequency []float64 `json:"Frequency"`
	Recency   []float64 `json:"Recency"`
}

func visitFrequency(p payload.Payload, _ Context) (chart.Spec, error) {
	var data visitFrequencyData

	if err := p.Records(KeyVisitFrequency, &data); err != nil {
		return chart.Spec{}, fmt.Errorf("%w: %w", ErrShape, err)
	}

	n := min(len(data.Frequency), len(data.Recency))
	points := make([]chart.Point, n)
	colors := make([]string, n)

	for i := range n {
		points[i] = chart.Point{X: data.Frequency[i], Y: data.Recency[i]}
		colors[i] = RecencyColor(data.Recency[i])
	}

	datasets := []chart.Dataset{{
		Label:       "Visit vs Purchase",
		Points:      points,
		Fill:        colors,
		Border:      []string{scatterBorder},
		BorderWidth: scatterBorderW,
		PointRadius: scatterRadius,
	}}

	if trend, ok := trendLine(data.Frequency[:n], data.Recency[:n]); ok {
		datasets = append(datasets, trend)
	}

	for _, bin := range RecencyBins {
		datasets = append(datasets, chart.Dataset{
			Label:       bin.Label,
			Fill:        []string{bin.Color},
			Border:      []string{scatterBorder},
			BorderWidth: scatterBorderW,
			LegendOnly:  true,
		})
	}

	return chart.Spec{Datasets: datasets}, nil
}

// trendLine fits recency against frequency and returns the fitted segment
// across the observed frequency range. It reports false when no line can be
// fitted, e.g. when every frequency is equal.
func trendLine(xs, ys []float64) (chart.Dataset, bool) {
	fit, err := stats.LinearFit(xs, ys)
	if err != nil {
		return chart.Dataset{}, false
	}

	lo, hi := stats.Min(xs), stats.Max(xs)

	return chart.Dataset{
		Label:       "Trend Line",
		Points:      []chart.Point{{X: lo, Y: fit.At(lo)}, {X: hi, Y: fit.At(hi)}},
		Border:      []string{trendLineColor},
		BorderWidth: trendLineWidth,
		Type:        chart.KindLine,
	}, true
}
