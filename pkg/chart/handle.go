package chart

import (
	"sync"

	"github.com/Sumatoshi-tech/salesboard/pkg/stats"
	"github.com/Sumatoshi-tech/salesboard/pkg/theme"
)

// Handle is the live chart of one widget. A handle is created once per
// widget id and afterwards mutated in place, never recreated.
type Handle struct {
	mu sync.RWMutex

	id       string
	kind     Kind
	spec     Spec
	options  Options
	revision int
	animated bool
}

func newHandle(id string, kind Kind, spec Spec, options Options) *Handle {
	return &Handle{
		id:       id,
		kind:     kind,
		spec:     spec.Clone(),
		options:  options.Clone(),
		revision: 1,
		animated: true,
	}
}

// ID returns the widget id the handle is bound to. It doubles as the id of
// the rendering surface.
func (h *Handle) ID() string {
	return h.id
}

// Kind returns the chart kind fixed at creation.
func (h *Handle) Kind() Kind {
	return h.kind
}

// Spec returns a copy of the current chart data.
func (h *Handle) Spec() Spec {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.spec.Clone()
}

// Options returns a copy of the current effective options.
func (h *Handle) Options() Options {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.options.Clone()
}

// Revision counts the draws of this handle, starting at 1 for the entry draw.
func (h *Handle) Revision() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.revision
}

// Animated reports whether the last draw played the entry animation.
func (h *Handle) Animated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.animated
}

// Update replaces the data and options of the handle in place.
// It does not redraw.
func (h *Handle) Update(spec Spec, options Options) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.spec = spec.Clone()
	h.options = options.Clone()
}

// Redraw records a new draw of the handle.
func (h *Handle) Redraw(animate bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.revision++
	h.animated = animate
}

// recolor rewrites the themed colours of the options and redraws without
// animation.
func (h *Handle) recolor(pair theme.Pair) {
	h.mu.Lock()
	h.options = Recolor(h.options, pair)
	h.mu.Unlock()

	h.Redraw(false)
}

// DataLabel returns the in-chart label of value i of the primary dataset.
// It reports false when the chart draws no data labels.
func (h *Handle) DataLabel(i int) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	labels := h.options.DataLabels
	if labels == nil || !labels.Display {
		return "", false
	}

	primary, ok := h.spec.Primary()
	if !ok || i < 0 || i >= len(primary.Values) {
		return "", false
	}

	return labels.Format.ApplyWithTotal(primary.Values[i], stats.Sum(primary.Values)), true
}

// TooltipText returns the tooltip line of value i of dataset ds.
func (h *Handle) TooltipText(ds, i int) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if ds < 0 || ds >= len(h.spec.Datasets) {
		return ""
	}

	dataset := h.spec.Datasets[ds]

	valueFormat := dataset.Format
	if valueFormat == FormatNone && h.options.Tooltip != nil {
		valueFormat = h.options.Tooltip.Value
	}

	if dataset.Points != nil {
		if i < 0 || i >= len(dataset.Points) {
			return ""
		}

		return valueFormat.ApplyPoint(dataset.Points[i])
	}

	if i < 0 || i >= len(dataset.Values) {
		return ""
	}

	text := valueFormat.ApplyWithTotal(dataset.Values[i], stats.Sum(dataset.Values))

	label := dataset.Label
	if label == "" && i < len(h.spec.Labels) {
		label = h.spec.Labels[i]
	}

	if label == "" {
		return text
	}

	return label + ": " + text
}

// TooltipTitle returns the tooltip heading of category i.
func (h *Handle) TooltipTitle(i int) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	label := labelAt(h.spec.Labels, i)

	if h.options.Tooltip != nil && h.options.Tooltip.Title == FormatHour && label != "" {
		return "Hour: " + label + ":00"
	}

	return label
}
