package widgets

import (
	"sync"

	"github.com/Sumatoshi-tech/salesboard/pkg/format"
	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
)

// StoreRow is one row of the store sales table.
type StoreRow struct {
	Store string  `json:"store"`
	Sales float64 `json:"sales"`
	// Formatted is the short currency form shown in the table.
	Formatted string `json:"formatted"`
}

// StoreRanking retains the last store to sales dataset so the table can be
// resorted without fetching again.
type StoreRanking struct {
	mu    sync.RWMutex
	data  payload.Series
	order payload.Order
}

// NewStoreRanking creates an empty ranking sorted in order.
func NewStoreRanking(order payload.Order) *StoreRanking {
	if order != payload.OrderAscending {
		order = payload.OrderDescending
	}

	return &StoreRanking{order: order}
}

// Load retains the store sales of p. It reports false, keeping the previous
// rows, when p has no store sales.
func (r *StoreRanking) Load(p payload.Payload) (bool, error) {
	if !p.Has(KeySalesByStore) {
		return false, nil
	}

	series, err := p.Series(KeySalesByStore)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	r.data = series
	r.mu.Unlock()

	return true, nil
}

// Sort changes the order of the table.
func (r *StoreRanking) Sort(order payload.Order) {
	if order != payload.OrderAscending {
		order = payload.OrderDescending
	}

	r.mu.Lock()
	r.order = order
	r.mu.Unlock()
}

// Order returns the current sort order.
func (r *StoreRanking) Order() payload.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.order
}

// Rows returns the table rows in the current order.
func (r *StoreRanking) Rows() []StoreRow {
	r.mu.RLock()
	sorted := r.data.Sorted(r.order)
	r.mu.RUnlock()

	rows := make([]StoreRow, len(sorted))
	for i, e := range sorted {
		rows[i] = StoreRow{Store: e.Key, Sales: e.Value, Formatted: format.Currency(e.Value, true)}
	}

	return rows
}
