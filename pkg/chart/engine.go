package chart

import (
	"log/slog"
	"sync"

	"github.com/Sumatoshi-tech/salesboard/pkg/theme"
)

// Engine creates or updates the chart of a widget. It owns no state of its
// own beyond the current theme; handles live in the Registry and surface
// visibility in the Layout.
type Engine struct {
	Registry *Registry
	Layout   *Layout
	Logger   *slog.Logger

	mu    sync.RWMutex
	theme theme.Theme
}

// NewEngine creates an engine drawing onto layout. A nil logger discards.
func NewEngine(reg *Registry, layout *Layout, logger *slog.Logger, t theme.Theme) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Engine{
		Registry: reg,
		Layout:   layout,
		Logger:   logger,
		theme:    t,
	}
}

// Theme returns the current theme.
func (e *Engine) Theme() theme.Theme {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.theme
}

// Pair returns the colour pair of the current theme.
func (e *Engine) Pair() theme.Pair {
	return theme.Resolve(e.Theme())
}

// SetTheme switches the theme and recolours every live chart.
func (e *Engine) SetTheme(t theme.Theme) {
	e.mu.Lock()
	e.theme = t
	e.mu.Unlock()

	Propagate(e.Registry, theme.Resolve(t))
	e.Logger.Debug("theme propagated", "theme", string(t), "charts", e.Registry.Len())
}

// Upsert draws spec on the surface of widget id. It returns nil when the
// page has no such surface or when the primary dataset carries no data, in
// which case the surface is hidden. A widget that already has a handle is
// updated in place and redrawn without animation.
func (e *Engine) Upsert(id string, kind Kind, spec Spec, opts Options) *Handle {
	if _, ok := e.Layout.Lookup(id); !ok {
		e.Logger.Warn("chart surface not found", "widget", id)

		return nil
	}

	primary, ok := spec.Primary()
	if !ok || !Valid(primary.Signal()) {
		e.Logger.Info("no valid data for chart", "widget", id)
		e.Layout.Hide(id)

		return nil
	}

	if err := spec.Validate(); err != nil {
		e.Logger.Warn("malformed chart data", "widget", id, "error", err)
		e.Layout.Hide(id)

		return nil
	}

	e.Layout.Show(id)

	effective := e.effectiveOptions(kind, opts)

	if h, found := e.Registry.Get(id); found {
		h.Update(spec, effective)
		h.Redraw(false)

		return h
	}

	h := newHandle(id, kind, spec, effective)
	e.Registry.Put(h)

	return h
}

func (e *Engine) effectiveOptions(kind Kind, caller Options) Options {
	out := Merge(DefaultOptions(), caller)

	legend := DefaultLegend()
	if out.Legend != nil {
		legend = *out.Legend
	}

	legend.LabelColor = e.Pair().Text
	out.Legend = &legend

	out.DataLabels = nil
	if kind.Circular() {
		out.DataLabels = &DataLabels{
			Display: true,
			Color:   theme.DataLabel,
			Format:  FormatPercentOfTotal,
		}
	}

	return out
}
