// Package cache keeps rendered chart snapshots so repeated image requests
// for an unchanged chart skip rendering.
package cache

import (
	"bytes"
	"sync"
	"sync/atomic"

	"github.com/Sumatoshi-tech/salesboard/pkg/chart"
)

// DefaultSize is the default memory budget of a snapshot cache (32 MB).
const DefaultSize = 32 * 1024 * 1024

const bytesPerKB = 1024.0

// Key identifies one rendition of a chart. A redraw bumps the revision, so
// stale images are never served.
type Key struct {
	Widget   string
	Revision int
	Width    int
	Height   int
}

// Snapshots is a size-bounded LRU of PNG snapshots. A nil *Snapshots renders
// every request.
type Snapshots struct {
	mu          sync.Mutex
	entries     map[Key]*entry
	head        *entry // Most recently used.
	tail        *entry // Least recently used.
	maxSize     int64
	currentSize int64

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key         Key
	png         []byte
	size        int64
	accessCount int64
	prev        *entry
	next        *entry
}

// evictionCost is higher for entries worth keeping: often read and small.
func (e *entry) evictionCost() float64 {
	sizeKB := float64(e.size) / bytesPerKB
	if sizeKB < 1 {
		sizeKB = 1
	}

	return float64(e.accessCount) / sizeKB
}

// New creates a cache holding at most maxSize bytes of images.
func New(maxSize int64) *Snapshots {
	if maxSize <= 0 {
		maxSize = DefaultSize
	}

	return &Snapshots{
		entries: make(map[Key]*entry),
		maxSize: maxSize,
	}
}

// Snapshot returns the PNG of h at the given size, rendering it on a miss.
func (c *Snapshots) Snapshot(h *chart.Handle, width, height int) ([]byte, error) {
	key := Key{Widget: h.ID(), Revision: h.Revision(), Width: width, Height: height}

	if c != nil {
		if png, ok := c.Get(key); ok {
			return png, nil
		}
	}

	var buf bytes.Buffer

	if err := h.Snapshot(&buf, width, height); err != nil {
		return nil, err
	}

	png := buf.Bytes()

	if c != nil {
		c.Put(key, png)
	}

	return png, nil
}

// Get returns the cached image for key.
func (c *Snapshots) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		return nil, false
	}

	c.hits.Add(1)

	e.accessCount++
	c.moveToFront(e)

	return e.png, true
}

// Put stores png under key. Images larger than the whole cache are not
// kept; otherwise entries are evicted until it fits, large and rarely read
// ones first.
func (c *Snapshots) Put(key Key, png []byte) {
	size := int64(len(png))
	if size == 0 || size > c.maxSize {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.accessCount++
		c.moveToFront(e)

		return
	}

	for c.currentSize+size > c.maxSize && c.tail != nil {
		c.evictLowestCost()
	}

	e := &entry{
		key:         key,
		png:         append([]byte(nil), png...),
		size:        size,
		accessCount: 1,
	}

	c.entries[key] = e
	c.currentSize += size
	c.addToFront(e)
}

// Stats holds cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Entries     int
	CurrentSize int64
	MaxSize     int64
}

// HitRate returns hits over lookups, 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// Stats returns the current counters.
func (c *Snapshots) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Entries:     len(c.entries),
		CurrentSize: c.currentSize,
		MaxSize:     c.maxSize,
	}
}

// Clear drops every entry.
func (c *Snapshots) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*entry)
	c.head = nil
	c.tail = nil
	c.currentSize = 0
}

func (c *Snapshots) moveToFront(e *entry) {
	if e == c.head {
		return
	}

	c.removeFromList(e)
	c.addToFront(e)
}

func (c *Snapshots) addToFront(e *entry) {
	e.prev = nil
	e.next = c.head

	if c.head != nil {
		c.head.prev = e
	}

	c.head = e

	if c.tail == nil {
		c.tail = e
	}
}

func (c *Snapshots) removeFromList(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}

	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

// evictionSample is how many entries from the LRU tail compete for eviction.
const evictionSample = 5

// evictLowestCost removes the cheapest of the least recently used entries.
func (c *Snapshots) evictLowestCost() {
	var candidates [evictionSample]*entry

	count := 0

	for e := c.tail; e != nil && count < evictionSample; e = e.prev {
		candidates[count] = e
		count++
	}

	if count == 0 {
		return
	}

	victim := candidates[0]
	lowest := victim.evictionCost()

	for _, e := range candidates[1:count] {
		if cost := e.evictionCost(); cost < lowest {
			lowest = cost
			victim = e
		}
	}

	c.removeFromList(victim)
	delete(c.entries, victim.key)
	c.currentSize -= victim.size
}
