package payload

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrNotObject is returned when a metric that must be a JSON object is not.
var ErrNotObject = errors.New("metric is not a JSON object")

// Entry is one key/value pair of a JSON object, in document order.
type Entry[T any] struct {
	Key   string
	Value T
}

// DecodeOrdered decodes a JSON object keeping the server's key order, which
// a Go map would lose.
func DecodeOrdered[T any](raw json.RawMessage) ([]Entry[T], error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read object start: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	var out []Entry[T]

	for dec.More() {
		keyTok, tokErr := dec.Token()
		if tokErr != nil {
			return nil, fmt.Errorf("read key: %w", tokErr)
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: key %v", ErrNotObject, keyTok)
		}

		var value T

		if decErr := dec.Decode(&value); decErr != nil {
			return nil, fmt.Errorf("decode %q: %w", key, decErr)
		}

		out = append(out, Entry[T]{Key: key, Value: value})
	}

	return out, nil
}

// Order is the sort order applied to a series.
type Order string

// Known orders.
const (
	OrderInsertion  Order = ""
	OrderAscending  Order = "asc"
	OrderDescending Order = "desc"
)

// ParseOrder maps a sort selector value onto an Order. Anything but "asc"
// sorts descending.
func ParseOrder(s string) Order {
	if s == string(OrderAscending) {
		return OrderAscending
	}

	return OrderDescending
}

// Series is a category to number mapping in server order. Null values
// decode as zero.
type Series []Entry[float64]

// Keys returns the category names.
func (s Series) Keys() []string {
	keys := make([]string, len(s))
	for i, e := range s {
		keys[i] = e.Key
	}

	return keys
}

// Values returns the numbers.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, e := range s {
		values[i] = e.Value
	}

	return values
}

// Sorted returns a copy of s in the given order. Ties keep server order.
func (s Series) Sorted(order Order) Series {
	out := slices.Clone(s)

	switch order {
	case OrderAscending:
		slices.SortStableFunc(out, func(a, b Entry[float64]) int { return cmp.Compare(a.Value, b.Value) })
	case OrderDescending:
		slices.SortStableFunc(out, func(a, b Entry[float64]) int { return cmp.Compare(b.Value, a.Value) })
	case OrderInsertion:
	}

	return out
}
