package chart

import (
	"slices"
	"sync"
)

// Registry maps widget ids to their live chart handles. Entries are added
// on the first successful render of a widget and are never removed.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]*Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*Handle)}
}

// Get returns the handle registered for id.
func (r *Registry) Get(id string) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handles[id]

	return h, ok
}

// Put registers h under its widget id.
func (r *Registry) Put(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handles[h.ID()] = h
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handles)
}

// IDs returns the registered widget ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.handles))
	for id := range r.handles {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Each calls fn for every handle in widget id order.
func (r *Registry) Each(fn func(*Handle)) {
	for _, id := range r.IDs() {
		if h, ok := r.Get(id); ok {
			fn(h)
		}
	}
}
