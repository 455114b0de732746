package chart

import (
	"maps"

	"github.com/Sumatoshi-tech/salesboard/pkg/theme"
)

// Engine-wide defaults.
const (
	DefaultAnimationMS  = 750
	DefaultEasing       = "easeInOutQuart"
	DefaultLegendPos    = "right"
	LegendPositionTop   = "top"
	TooltipModeIndex    = "index"
	IndexAxisHorizontal = "y"
	ScaleTypeLinear     = "linear"
	ScalePositionLeft   = "left"
	ScalePositionRight  = "right"
)

// Options configures how a chart is drawn. Nil sections mean "not set" and
// are filled in by Merge from the defaults.
type Options struct {
	Responsive          *bool            `json:"responsive,omitempty"            yaml:"responsive,omitempty"`
	MaintainAspectRatio *bool            `json:"maintain_aspect_ratio,omitempty" yaml:"maintain_aspect_ratio,omitempty"`
	Animation           *Animation       `json:"animation,omitempty"             yaml:"animation,omitempty"`
	IndexAxis           string           `json:"index_axis,omitempty"            yaml:"index_axis,omitempty"`
	Legend              *Legend          `json:"legend,omitempty"                yaml:"legend,omitempty"`
	Tooltip             *Tooltip         `json:"tooltip,omitempty"               yaml:"tooltip,omitempty"`
	Scales              map[string]Scale `json:"scales,omitempty"                yaml:"scales,omitempty"`
	DataLabels          *DataLabels      `json:"data_labels,omitempty"           yaml:"data_labels,omitempty"`
}

// Animation is the entry animation of a newly created chart.
type Animation struct {
	DurationMS int    `json:"duration_ms" yaml:"duration_ms"`
	Easing     string `json:"easing"      yaml:"easing"`
}

// Legend configures the chart legend.
type Legend struct {
	Display    bool         `json:"display"               yaml:"display"`
	Position   string       `json:"position,omitempty"    yaml:"position,omitempty"`
	LabelColor string       `json:"label_color,omitempty" yaml:"label_color,omitempty"`
	Items      []LegendItem `json:"items,omitempty"       yaml:"items,omitempty"`
}

// LegendItem is an explicitly generated legend entry.
type LegendItem struct {
	Text      string  `json:"text"                 yaml:"text"`
	Fill      string  `json:"fill,omitempty"       yaml:"fill,omitempty"`
	Stroke    string  `json:"stroke,omitempty"     yaml:"stroke,omitempty"`
	LineWidth float64 `json:"line_width,omitempty" yaml:"line_width,omitempty"`
}

// Tooltip configures per-point tooltip text.
type Tooltip struct {
	Mode  string `json:"mode,omitempty"  yaml:"mode,omitempty"`
	Value Format `json:"value,omitempty" yaml:"value,omitempty"`
	Title Format `json:"title,omitempty" yaml:"title,omitempty"`
}

// Scale configures one axis, keyed by axis id in Options.Scales.
type Scale struct {
	Type        string `json:"type,omitempty"       yaml:"type,omitempty"`
	Position    string `json:"position,omitempty"   yaml:"position,omitempty"`
	BeginAtZero bool   `json:"begin_at_zero"        yaml:"begin_at_zero"`
	Title       string `json:"title,omitempty"      yaml:"title,omitempty"`
	Ticks       Format `json:"ticks,omitempty"      yaml:"ticks,omitempty"`
	TickColor   string `json:"tick_color,omitempty" yaml:"tick_color,omitempty"`
	GridColor   string `json:"grid_color,omitempty" yaml:"grid_color,omitempty"`
	// HideGridOnChart keeps the axis from drawing grid lines over the chart
	// area, so a right-hand axis never shares gridlines with the left one.
	HideGridOnChart bool `json:"hide_grid_on_chart,omitempty" yaml:"hide_grid_on_chart,omitempty"`
}

// DataLabels configures in-chart value labels.
type DataLabels struct {
	Display bool   `json:"display"         yaml:"display"`
	Color   string `json:"color,omitempty" yaml:"color,omitempty"`
	Format  Format `json:"format"          yaml:"format"`
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// DefaultOptions returns the engine-wide defaults every chart starts from.
func DefaultOptions() Options {
	return Options{
		Responsive:          Bool(true),
		MaintainAspectRatio: Bool(false),
		Animation:           &Animation{DurationMS: DefaultAnimationMS, Easing: DefaultEasing},
	}
}

// DefaultLegend is used when the caller does not configure a legend.
func DefaultLegend() Legend {
	return Legend{Display: false, Position: DefaultLegendPos}
}

// ScaleConfig returns the default value axis: zero based, currency ticks and
// themed tick and grid colours.
func ScaleConfig(pair theme.Pair, short bool) Scale {
	ticks := FormatCurrencyLong
	if short {
		ticks = FormatCurrencyShort
	}

	return Scale{
		BeginAtZero: true,
		Ticks:       ticks,
		TickColor:   pair.Text,
		GridColor:   pair.Grid,
	}
}

// Merge overlays over onto base. Sections set in over win; scales are
// merged per axis id with over winning on conflicts.
func Merge(base, over Options) Options {
	out := base.Clone()

	if over.Responsive != nil {
		out.Responsive = Bool(*over.Responsive)
	}

	if over.MaintainAspectRatio != nil {
		out.MaintainAspectRatio = Bool(*over.MaintainAspectRatio)
	}

	if over.Animation != nil {
		anim := *over.Animation
		out.Animation = &anim
	}

	if over.IndexAxis != "" {
		out.IndexAxis = over.IndexAxis
	}

	if over.Legend != nil {
		out.Legend = over.Legend.clone()
	}

	if over.Tooltip != nil {
		tip := *over.Tooltip
		out.Tooltip = &tip
	}

	if len(over.Scales) > 0 {
		if out.Scales == nil {
			out.Scales = make(map[string]Scale, len(over.Scales))
		}

		maps.Copy(out.Scales, over.Scales)
	}

	if over.DataLabels != nil {
		labels := *over.DataLabels
		out.DataLabels = &labels
	}

	return out
}

// Clone returns a deep copy of the options.
func (o Options) Clone() Options {
	out := o

	if o.Responsive != nil {
		out.Responsive = Bool(*o.Responsive)
	}

	if o.MaintainAspectRatio != nil {
		out.MaintainAspectRatio = Bool(*o.MaintainAspectRatio)
	}

	if o.Animation != nil {
		anim := *o.Animation
		out.Animation = &anim
	}

	if o.Legend != nil {
		out.Legend = o.Legend.clone()
	}

	if o.Tooltip != nil {
		tip := *o.Tooltip
		out.Tooltip = &tip
	}

	if o.Scales != nil {
		out.Scales = maps.Clone(o.Scales)
	}

	if o.DataLabels != nil {
		labels := *o.DataLabels
		out.DataLabels = &labels
	}

	return out
}

func (l *Legend) clone() *Legend {
	out := *l
	out.Items = cloneSlice(l.Items)

	return &out
}
