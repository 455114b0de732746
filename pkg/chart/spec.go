package chart

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned when a dataset has a different number of values than labels.
var ErrLengthMismatch = errors.New("dataset length does not match labels")

// Point is one (x, y) sample of a scatter or two-point line dataset.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Dataset is one series of a chart. Values run parallel to Spec.Labels;
// Points are used instead by datasets that carry their own x coordinate.
type Dataset struct {
	Label  string    `json:"label,omitempty"  yaml:"label,omitempty"`
	Values []float64 `json:"values,omitempty" yaml:"values,omitempty"`
	Points []Point   `json:"points,omitempty" yaml:"points,omitempty"`

	// Fill and Border colours. A single entry applies to every value,
	// otherwise colours are used per value, cyclically.
	Fill   []string `json:"fill,omitempty"   yaml:"fill,omitempty"`
	Border []string `json:"border,omitempty" yaml:"border,omitempty"`

	// Type overrides the chart kind for this dataset in mixed bar/line charts.
	Type Kind `json:"type,omitempty" yaml:"type,omitempty"`
	// AxisID binds the dataset to a declared value axis ("y1", "y2").
	AxisID string `json:"axis_id,omitempty" yaml:"axis_id,omitempty"`
	// Format overrides the tooltip value format for this dataset.
	Format Format `json:"format,omitempty" yaml:"format,omitempty"`

	Area        bool    `json:"area,omitempty"         yaml:"area,omitempty"`
	Tension     float64 `json:"tension,omitempty"      yaml:"tension,omitempty"`
	PointRadius float64 `json:"point_radius,omitempty" yaml:"point_radius,omitempty"`
	BorderWidth float64 `json:"border_width,omitempty" yaml:"border_width,omitempty"`

	// LegendOnly marks a synthetic, data-free dataset that exists to document
	// a colour in the legend.
	LegendOnly bool `json:"legend_only,omitempty" yaml:"legend_only,omitempty"`
}

// Signal returns the data the validity gate inspects for this dataset.
func (d Dataset) Signal() any {
	if d.Points != nil {
		return d.Points
	}

	return d.Values
}

// FillAt returns the fill colour of value i.
func (d Dataset) FillAt(i int) string {
	return colorAt(d.Fill, i)
}

// BorderAt returns the border colour of value i.
func (d Dataset) BorderAt(i int) string {
	return colorAt(d.Border, i)
}

func colorAt(colors []string, i int) string {
	if len(colors) == 0 {
		return ""
	}

	return colors[i%len(colors)]
}

// Spec is the generic labels plus datasets shape a renderer consumes.
type Spec struct {
	Labels   []string  `json:"labels"   yaml:"labels"`
	Datasets []Dataset `json:"datasets" yaml:"datasets"`
}

// Primary returns the first dataset, which decides validity and data labels.
func (s Spec) Primary() (Dataset, bool) {
	if len(s.Datasets) == 0 {
		return Dataset{}, false
	}

	return s.Datasets[0], true
}

// Validate checks that every value dataset runs parallel to the labels.
func (s Spec) Validate() error {
	for i, ds := range s.Datasets {
		if ds.Points != nil || ds.LegendOnly {
			continue
		}

		if len(ds.Values) != len(s.Labels) {
			return fmt.Errorf("%w: dataset %d (%q) has %d values for %d labels",
				ErrLengthMismatch, i, ds.Label, len(ds.Values), len(s.Labels))
		}
	}

	return nil
}

// Clone returns a deep copy of the spec.
func (s Spec) Clone() Spec {
	out := Spec{
		Labels:   append([]string(nil), s.Labels...),
		Datasets: make([]Dataset, len(s.Datasets)),
	}

	for i, ds := range s.Datasets {
		ds.Values = cloneSlice(ds.Values)
		ds.Points = cloneSlice(ds.Points)
		ds.Fill = cloneSlice(ds.Fill)
		ds.Border = cloneSlice(ds.Border)
		out.Datasets[i] = ds
	}

	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}

	return append(make([]T, 0, len(in)), in...)
}
