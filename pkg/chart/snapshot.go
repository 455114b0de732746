package chart

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Snapshot styling. Snapshots are printed on white paper whatever the
// dashboard theme.
const (
	snapshotFontSize   = 9.0
	snapshotLineWidth  = 2.0
	snapshotDotWidth   = 3.0
	snapshotPadding    = 20
	snapshotTextColor  = "333333"
	snapshotGridColor  = "dddddd"
	snapshotMinWidthPx = 120
	snapshotAreaAlpha  = 26
)

// ErrSnapshotSize is returned when a snapshot is requested at a size too small to draw.
var ErrSnapshotSize = errors.New("snapshot size too small")

// Snapshot writes a static PNG rendition of the chart.
func (h *Handle) Snapshot(w io.Writer, width, height int) error {
	if width < snapshotMinWidthPx || height < snapshotMinWidthPx {
		return fmt.Errorf("%w: %dx%d", ErrSnapshotSize, width, height)
	}

	h.mu.RLock()
	kind, spec, o := h.kind, h.spec.Clone(), h.options.Clone()
	h.mu.RUnlock()

	var err error

	switch {
	case kind == KindDoughnut:
		err = donutSnapshot(spec, width, height).Render(gochart.PNG, w)
	case kind == KindPie:
		err = pieSnapshot(spec, width, height).Render(gochart.PNG, w)
	case kind == KindBar && simpleBars(spec):
		err = barSnapshot(spec, o, width, height).Render(gochart.PNG, w)
	default:
		err = seriesSnapshot(kind, spec, o, width, height).Render(gochart.PNG, w)
	}

	if err != nil {
		return fmt.Errorf("snapshot chart %s: %w", h.id, err)
	}

	return nil
}

// simpleBars reports whether spec is a single bar dataset.
func simpleBars(spec Spec) bool {
	n := 0

	for _, ds := range spec.Datasets {
		if ds.LegendOnly {
			continue
		}

		if ds.Type == KindLine {
			return false
		}

		n++
	}

	return n == 1
}

func textStyle() gochart.Style {
	return gochart.Style{
		FontSize:  snapshotFontSize,
		FontColor: drawing.ColorFromHex(snapshotTextColor),
	}
}

func sliceValues(spec Spec) []gochart.Value {
	primary, _ := spec.Primary()
	values := make([]gochart.Value, 0, len(primary.Values))

	for i, v := range primary.Values {
		values = append(values, gochart.Value{
			Label: labelAt(spec.Labels, i),
			Value: v,
			Style: gochart.Style{
				FillColor:   ParseColor(primary.FillAt(i)),
				StrokeColor: drawing.ColorWhite,
				FontSize:    snapshotFontSize,
				FontColor:   drawing.ColorFromHex(snapshotTextColor),
			},
		})
	}

	return values
}

func pieSnapshot(spec Spec, width, height int) gochart.PieChart {
	return gochart.PieChart{
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: snapshotPadding, Bottom: snapshotPadding},
		},
		Values: sliceValues(spec),
	}
}

func donutSnapshot(spec Spec, width, height int) gochart.DonutChart {
	return gochart.DonutChart{
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: snapshotPadding, Bottom: snapshotPadding},
		},
		Values: sliceValues(spec),
	}
}

func barSnapshot(spec Spec, o Options, width, height int) gochart.BarChart {
	primary, _ := spec.Primary()
	bars := make([]gochart.Value, len(primary.Values))

	for i, v := range primary.Values {
		bars[i] = gochart.Value{
			Label: labelAt(spec.Labels, i),
			Value: v,
			Style: gochart.Style{
				FillColor:   ParseColor(primary.FillAt(i)),
				StrokeColor: ParseColor(primary.BorderAt(i)),
				StrokeWidth: 1,
			},
		}
	}

	return gochart.BarChart{
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: snapshotPadding, Left: snapshotPadding, Right: snapshotPadding},
		},
		XAxis: textStyle(),
		YAxis: gochart.YAxis{
			Style:          textStyle(),
			ValueFormatter: tickFormatter(valueScale(o).Ticks),
		},
		Bars: bars,
	}
}

func valueScale(o Options) Scale {
	for _, id := range []string{"y", "x", "y1"} {
		if s, ok := o.Scales[id]; ok {
			return s
		}
	}

	return Scale{}
}

func tickFormatter(f Format) gochart.ValueFormatter {
	return func(v any) string {
		if x, ok := v.(float64); ok {
			return f.Apply(x)
		}

		return fmt.Sprint(v)
	}
}

// seriesSnapshot draws line, scatter and mixed charts on a numeric x axis.
// Category labels become ticks at their index.
func seriesSnapshot(kind Kind, spec Spec, o Options, width, height int) *gochart.Chart {
	graph := &gochart.Chart{
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: snapshotPadding, Left: snapshotPadding, Right: snapshotPadding},
		},
		XAxis: gochart.XAxis{Style: textStyle()},
		YAxis: gochart.YAxis{
			Style:          textStyle(),
			ValueFormatter: tickFormatter(valueScale(o).Ticks),
			GridMajorStyle: gochart.Style{
				StrokeColor: drawing.ColorFromHex(snapshotGridColor),
				StrokeWidth: 1,
			},
		},
	}

	if kind != KindScatter {
		ticks := make([]gochart.Tick, len(spec.Labels))
		for i, label := range spec.Labels {
			ticks[i] = gochart.Tick{Value: float64(i), Label: label}
		}

		graph.XAxis.Ticks = ticks
	}

	ids := valueAxisIDs(o)

	for _, ds := range spec.Datasets {
		if ds.LegendOnly {
			continue
		}

		if ds.Points != nil && ds.Type != KindLine {
			graph.Series = append(graph.Series, pointSeries(ds)...)

			continue
		}

		series := continuousSeries(ds)
		if axisIndex(ids, ds.AxisID) > 0 {
			series.YAxis = gochart.YAxisSecondary
			graph.YAxisSecondary = gochart.YAxis{Style: textStyle()}
		}

		graph.Series = append(graph.Series, series)
	}

	if len(graph.Series) > 1 {
		graph.Elements = []gochart.Renderable{gochart.Legend(graph)}
	}

	return graph
}

func continuousSeries(ds Dataset) gochart.ContinuousSeries {
	color := ParseColor(ds.BorderAt(0))
	if ds.Type != KindLine && len(ds.Border) == 0 {
		color = ParseColor(ds.FillAt(0))
	}

	series := gochart.ContinuousSeries{
		Name: ds.Label,
		Style: gochart.Style{
			StrokeColor: color,
			StrokeWidth: snapshotLineWidth,
			DotColor:    color,
			DotWidth:    snapshotDotWidth,
		},
	}

	if ds.Area {
		series.Style.FillColor = color.WithAlpha(snapshotAreaAlpha)
	}

	if ds.Points != nil {
		for _, p := range ds.Points {
			series.XValues = append(series.XValues, p.X)
			series.YValues = append(series.YValues, p.Y)
		}

		return series
	}

	for i, v := range ds.Values {
		series.XValues = append(series.XValues, float64(i))
		series.YValues = append(series.YValues, v)
	}

	return series
}

// pointSeries splits a scatter dataset into one dot-only series per colour.
func pointSeries(ds Dataset) []gochart.Series {
	var order []string

	groups := make(map[string]*gochart.ContinuousSeries)

	for i, p := range ds.Points {
		fill := ds.FillAt(i)

		s, ok := groups[fill]
		if !ok {
			color := ParseColor(fill)
			s = &gochart.ContinuousSeries{
				Style: gochart.Style{
					StrokeWidth: gochart.Disabled,
					DotWidth:    snapshotDotWidth,
					DotColor:    color,
				},
			}
			groups[fill] = s
			order = append(order, fill)
		}

		s.XValues = append(s.XValues, p.X)
		s.YValues = append(s.YValues, p.Y)
	}

	out := make([]gochart.Series, 0, len(order))
	for _, fill := range order {
		out = append(out, *groups[fill])
	}

	return out
}

// ParseColor converts a CSS colour ("#rgb", "#rrggbb", "#rrggbbaa",
// "rgb(...)" or "rgba(...)") into a drawing colour. Unparseable input gives
// transparent.
func ParseColor(css string) drawing.Color {
	css = strings.TrimSpace(css)

	switch {
	case strings.HasPrefix(css, "#"):
		return parseHex(css[1:])
	case strings.HasPrefix(css, "rgb"):
		return parseRGB(css)
	default:
		return drawing.ColorTransparent
	}
}

const (
	hexShort     = 3
	hexLong      = 6
	hexWithAlpha = 8
	opaque       = 255
)

func parseHex(hex string) drawing.Color {
	switch len(hex) {
	case hexShort, hexLong:
		return drawing.ColorFromHex(hex)
	case hexWithAlpha:
		alpha, err := strconv.ParseUint(hex[hexLong:], 16, 8)
		if err != nil {
			return drawing.ColorTransparent
		}

		return drawing.ColorFromHex(hex[:hexLong]).WithAlpha(uint8(alpha))
	default:
		return drawing.ColorTransparent
	}
}

func parseRGB(css string) drawing.Color {
	open, end := strings.IndexByte(css, '('), strings.LastIndexByte(css, ')')
	if open < 0 || end < open {
		return drawing.ColorTransparent
	}

	parts := strings.Split(css[open+1:end], ",")
	if len(parts) < 3 {
		return drawing.ColorTransparent
	}

	var channels [3]uint8

	for i := range channels {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > opaque {
			return drawing.ColorTransparent
		}

		channels[i] = uint8(v)
	}

	alpha := uint8(opaque)

	if len(parts) > 3 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return drawing.ColorTransparent
		}

		alpha = uint8(min(max(a, 0), 1) * opaque)
	}

	return drawing.Color{R: channels[0], G: channels[1], B: channels[2], A: alpha}
}
