package chart

import "github.com/Sumatoshi-tech/salesboard/pkg/theme"

// Recolor returns a copy of opts with every declared axis and the legend
// labels coloured for pair. Data-bearing fields are left alone, so applying
// it twice gives the same result as applying it once.
func Recolor(opts Options, pair theme.Pair) Options {
	out := opts.Clone()

	for id, scale := range out.Scales {
		scale.TickColor = pair.Text
		scale.GridColor = pair.Grid
		out.Scales[id] = scale
	}

	if out.Legend != nil {
		out.Legend.LabelColor = pair.Text
	}

	return out
}

// Propagate recolours every registered handle for pair and redraws it
// without animation.
func Propagate(reg *Registry, pair theme.Pair) {
	reg.Each(func(h *Handle) {
		h.recolor(pair)
	})
}
