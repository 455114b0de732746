package widgets

import (
	"github.com/Sumatoshi-tech/salesboard/pkg/chart"
	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
	"github.com/Sumatoshi-tech/salesboard/pkg/theme"
)

// PredictedSales is the actual versus predicted monthly sales widget. It
// reads the prediction response rather than a graphs metric.
func PredictedSales() Widget {
	return Widget{
		ID:      PredictedSalesID,
		Kind:    chart.KindLine,
		Shape:   predictedShape,
		Options: predictedOptions,
	}
}

// RenderPredicted draws the prediction response. A payload without one
// leaves the widget untouched.
func RenderPredicted(engine *chart.Engine, p payload.Payload, c Context) *chart.Handle {
	if p.Response == nil || p.Response.MonthlySales == nil {
		return nil
	}

	w := PredictedSales()
	spec, _ := w.Shape(p, c)

	return engine.Upsert(w.ID, w.Kind, spec, w.Options(c))
}

func predictedShape(p payload.Payload, _ Context) (chart.Spec, error) {
	var months []payload.MonthlySale
	if p.Response != nil {
		months = p.Response.MonthlySales
	}

	labels := make([]string, len(months))
	actual := make([]float64, len(months))
	predicted := make([]float64, len(months))

	for i, m := range months {
		labels[i] = string(m.MonthYear)
		actual[i] = valueOrZero(m.Actual)
		predicted[i] = valueOrZero(m.Predicted)
	}

	actualDS := chart.Dataset{Label: "Actual Sales", Values: actual}
	trendStyle(&actualDS, theme.Trend, theme.TrendFill)

	predictedDS := chart.Dataset{Label: "Predicted Sales", Values: predicted}
	trendStyle(&predictedDS, theme.Primary, theme.PrimaryFill)

	return chart.Spec{Labels: labels, Datasets: []chart.Dataset{actualDS, predictedDS}}, nil
}

func predictedOptions(Context) chart.Options {
	return chart.Options{
		Scales: map[string]chart.Scale{"y": {BeginAtZero: true, Title: "Sales (USD)"}},
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}
