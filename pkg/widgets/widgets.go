// Package widgets turns payload metrics into chart specs. Every chart on the
// dashboard is one row of a declarative table: the widget id, the metric key
// it reads, the chart kind, a shape function and an options function.
package widgets

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/salesboard/pkg/chart"
	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
	"github.com/Sumatoshi-tech/salesboard/pkg/theme"
)

// Period selects the granularity of the sales trend chart.
type Period string

// Trend periods.
const (
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod maps a period selector value onto a Period. Anything but
// "year" is monthly.
func ParsePeriod(s string) Period {
	if s == string(PeriodYear) {
		return PeriodYear
	}

	return PeriodMonth
}

// ErrUnknownWidget is returned when a widget id is not in the table.
var ErrUnknownWidget = errors.New("unknown widget")

// Context carries the session state a widget may depend on.
type Context struct {
	Pair   theme.Pair
	Period Period
}

// ShapeFunc turns the payload into chart data.
type ShapeFunc func(p payload.Payload, c Context) (chart.Spec, error)

// OptionsFunc returns the caller options of a widget.
type OptionsFunc func(c Context) chart.Options

// Widget is one chart region of the dashboard.
type Widget struct {
	ID      string
	DataKey string
	Kind    chart.Kind
	Shape   ShapeFunc
	Options OptionsFunc
}

// Outcome records what a dispatch did to each widget.
type Outcome struct {
	Rendered []string
	Hidden   []string
}

// Render shapes the widget's metric and upserts it. A metric absent from
// the payload hides the widget.
func (w Widget) Render(engine *chart.Engine, p payload.Payload, c Context) (*chart.Handle, error) {
	if !p.Has(w.DataKey) {
		engine.Logger.Debug("no data for widget", "widget", w.ID, "key", w.DataKey)
		engine.Layout.Hide(w.ID)

		return nil, nil
	}

	spec, err := w.Shape(p, c)
	if err != nil {
		engine.Layout.Hide(w.ID)

		return nil, fmt.Errorf("shape %s: %w", w.ID, err)
	}

	opts := w.Options(c)
	if w.Kind.Circular() && opts.Legend != nil && opts.Legend.Display && opts.Legend.Items == nil {
		opts.Legend.Items = LegendItems(spec)
	}

	return engine.Upsert(w.ID, w.Kind, spec, opts), nil
}

// Dispatch runs every widget of the table in order against p. A widget
// whose metric cannot be decoded is hidden and logged; the rest still run.
func Dispatch(engine *chart.Engine, p payload.Payload, c Context) Outcome {
	var out Outcome

	for _, w := range Table() {
		h, err := w.Render(engine, p, c)
		if err != nil {
			engine.Logger.Warn("widget data rejected", "widget", w.ID, "error", err)
		}

		if h == nil {
			out.Hidden = append(out.Hidden, w.ID)

			continue
		}

		out.Rendered = append(out.Rendered, w.ID)
	}

	return out
}

// Lookup returns the table entry for id.
func Lookup(id string) (Widget, error) {
	for _, w := range Table() {
		if w.ID == id {
			return w, nil
		}
	}

	if id == PredictedSalesID {
		return PredictedSales(), nil
	}

	return Widget{}, fmt.Errorf("%w: %s", ErrUnknownWidget, id)
}

// IDs returns every chart widget id in page order, predicted sales last.
func IDs() []string {
	table := Table()
	ids := make([]string, 0, len(table)+1)

	for _, w := range table {
		ids = append(ids, w.ID)
	}

	return append(ids, PredictedSalesID)
}
