// Package chart holds the chart-rendering pipeline of a dashboard session:
// the data validity gate, the registry of live chart handles, the upsert
// engine that creates or updates a handle per widget, and the theme
// propagation that recolours retained handles.
package chart

// Kind is the rendering kind of a chart or of a single dataset in a mixed chart.
type Kind string

// Supported chart kinds.
const (
	KindBar      Kind = "bar"
	KindLine     Kind = "line"
	KindPie      Kind = "pie"
	KindDoughnut Kind = "doughnut"
	KindScatter  Kind = "scatter"
)

// Circular reports whether k is drawn as slices of a whole.
// Circular kinds get percentage data labels.
func (k Kind) Circular() bool {
	return k == KindPie || k == KindDoughnut
}
