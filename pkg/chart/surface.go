package chart

import (
	"slices"
	"sync"
)

// Surface is the rendering target of one widget. Visibility is page state,
// kept apart from the chart handle so a hidden widget can be revived without
// rebuilding its chart.
type Surface struct {
	ID      string
	Visible bool
}

// Layout is the set of rendering surfaces present on a page, in page order.
type Layout struct {
	mu       sync.RWMutex
	order    []string
	surfaces map[string]*Surface
}

// NewLayout creates a layout with one visible surface per id.
// Duplicate ids are ignored.
func NewLayout(ids ...string) *Layout {
	l := &Layout{surfaces: make(map[string]*Surface, len(ids))}

	for _, id := range ids {
		if _, dup := l.surfaces[id]; dup {
			continue
		}

		l.order = append(l.order, id)
		l.surfaces[id] = &Surface{ID: id, Visible: true}
	}

	return l
}

// Lookup returns the surface for id.
func (l *Layout) Lookup(id string) (Surface, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.surfaces[id]
	if !ok {
		return Surface{}, false
	}

	return *s, true
}

// Show makes the surface for id visible. Unknown ids are ignored.
func (l *Layout) Show(id string) {
	l.setVisible(id, true)
}

// Hide hides the surface for id. Unknown ids are ignored.
func (l *Layout) Hide(id string) {
	l.setVisible(id, false)
}

// Visible reports whether the surface for id exists and is shown.
func (l *Layout) Visible(id string) bool {
	s, ok := l.Lookup(id)

	return ok && s.Visible
}

// IDs returns the surface ids in page order.
func (l *Layout) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Clone(l.order)
}

func (l *Layout) setVisible(id string, visible bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.surfaces[id]; ok {
		s.Visible = visible
	}
}
