package chart

import (
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/Sumatoshi-tech/salesboard/pkg/stats"
)

// jsShortNumber is the browser twin of format.LargeNumber.
const jsShortNumber = "(function(n){var a=Math.abs(n);" +
	"if(a>=1e9)return (n/1e9).toFixed(1)+'B';" +
	"if(a>=1e6)return (n/1e6).toFixed(1)+'M';" +
	"if(a>=1e3)return (n/1e3).toFixed(1)+'K';" +
	"return n.toFixed(0);})"

// jsGrouped renders |n| rounded to an integer with thousands separators.
const jsGrouped = "Math.round(Math.abs(n)).toLocaleString('en-US')"

// js returns a JavaScript expression that formats the number bound to n the
// way Apply does. total is the dataset sum used by FormatPercentOfTotal; p is
// the echarts callback parameter, read only by FormatFreqRecency.
func (f Format) js(total float64) string {
	switch f {
	case FormatCurrencyShort:
		return "'$'+" + jsShortNumber + "(n)"
	case FormatCurrencyLong:
		return "(n<0?'-$':'$')+" + jsGrouped
	case FormatCount:
		return "(n<0?'-':'')+" + jsGrouped
	case FormatPercent:
		return "n.toFixed(2)+'%'"
	case FormatHour:
		return "n.toFixed(0)+':00'"
	case FormatPercentOfTotal:
		if total == 0 {
			return "'0.0%'"
		}

		return "(n/" + strconv.FormatFloat(total, 'g', -1, 64) + "*100).toFixed(1)+'%'"
	case FormatFreqRecency:
		return "'Frequency: '+p.value[0]+', Recency: '+p.value[1]+' days'"
	case FormatNone:
		return "String(n)"
	default:
		return "String(n)"
	}
}

// jsParamValue binds n to the numeric value of callback parameter p. Point
// data carries [x, y]; the y value is formatted.
const jsParamValue = "var n=Array.isArray(p.value)?p.value[1]:p.value;"

// paramFunc returns a JS function of an echarts callback parameter.
func (f Format) paramFunc(total float64) string {
	return "function(p){" + jsParamValue + "return " + f.js(total) + ";}"
}

// axisFormatter formats value-axis tick labels. It is empty when the scale
// declares no tick format, leaving echarts' default labels.
func axisFormatter(s Scale) types.FuncStr {
	if s.Ticks == FormatNone {
		return ""
	}

	return opts.FuncOpts("function(n){return " + s.Ticks.js(0) + ";}")
}

// dataLabelFormatter formats in-chart labels of the primary dataset.
func dataLabelFormatter(labels *DataLabels, primary Dataset) string {
	return string(opts.FuncOpts(labels.Format.paramFunc(stats.Sum(primary.Values))))
}

// seriesValueFormat is the tooltip value format of one echarts series.
func seriesValueFormat(ds Dataset, tip *Tooltip) Format {
	if ds.Format == FormatNone && tip != nil {
		return tip.Value
	}

	return ds.Format
}

// tooltipFormatter builds the tooltip callback. series lists the datasets in
// the order echarts series are added, so p.seriesIndex selects the format.
// Item tooltips read "label: value"; axis tooltips put the category title
// above one line per series.
func tooltipFormatter(o Options, series []Dataset) types.FuncStr {
	if o.Tooltip == nil {
		return ""
	}

	fallback := o.Tooltip.Value.paramFunc(0)

	fns := make([]string, len(series))
	for i, ds := range series {
		fns[i] = seriesValueFormat(ds, o.Tooltip).paramFunc(stats.Sum(ds.Values))
	}

	var b strings.Builder

	b.WriteString("function(ps){var f=[" + strings.Join(fns, ",") + "];")
	b.WriteString("var fb=" + fallback + ";")
	b.WriteString("var line=function(p){var g=f[p.seriesIndex]||fb;var l=p.seriesName||p.name;" +
		"return (l?l+': ':'')+g(p);};")

	if o.Tooltip.Mode != TooltipModeIndex {
		b.WriteString("return line(Array.isArray(ps)?ps[0]:ps);}")

		return opts.FuncOpts(b.String())
	}

	title := "ps[0].name"
	if o.Tooltip.Title == FormatHour {
		title = "'Hour: '+ps[0].name+':00'"
	}

	b.WriteString("ps=Array.isArray(ps)?ps:[ps];")
	b.WriteString("return " + title + "+ps.map(function(p){return '<br/>'+line(p);}).join('');}")

	return opts.FuncOpts(b.String())
}
