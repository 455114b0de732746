// Package payload models the aggregate statistics the dashboard receives:
// the initial page payload and the filter endpoint response.
package payload

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Reserved top-level keys of the combined payload shape.
const (
	KeyGraphs     = "graphs"
	KeyResponse   = "response"
	KeyCards      = "cards"
	KeyCategories = "categories"
	KeyLocations  = "locations"
)

var (
	// ErrMalformed is returned when the body is not a JSON object.
	ErrMalformed = errors.New("malformed payload")
	// ErrSchema is returned when the body does not match the payload schema.
	ErrSchema = errors.New("payload does not match schema")
	// ErrMissing is returned when a metric key is absent from the payload.
	ErrMissing = errors.New("metric not present")
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// Payload is the normalised form of both payload shapes: metric datasets
// keyed by metric key plus the optional prediction response, summary cards
// and filter option lists.
type Payload struct {
	Graphs     map[string]json.RawMessage
	Response   *Response
	Cards      Series
	Categories []string
	Locations  []string
}

// Response holds the monthly sales prediction.
type Response struct {
	MonthlySales   []MonthlySale `json:"monthly_sales"`
	NextMonthSales float64       `json:"next_month_sales"`
	Metrics        *Metrics      `json:"metrics,omitempty"`
}

// MonthlySale is one month of actual and predicted sales.
type MonthlySale struct {
	MonthYear Label    `json:"Month-Year"`
	Actual    *float64 `json:"Purchase Amount (USD)"`
	Predicted *float64 `json:"Predicted"`
}

// Label is a category label that the server may send as a string or as a
// number.
type Label string

// UnmarshalJSON accepts a JSON string or number.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Label(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("label: %w", err)
	}

	*l = Label(n.String())

	return nil
}

// Metrics summarises the prediction.
type Metrics struct {
	Trend               float64 `json:"trend"`
	Confidence          float64 `json:"confidence"`
	NextMonthPrediction float64 `json:"next_month_prediction"`
}

// Parse decodes a payload body. It accepts the flat filter shape
// {metricKey: dataset, ...} and the combined initial shape
// {graphs: {...}, response: {...}, cards: {...}, ...}.
func Parse(body []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Payload{}, fmt.Errorf("%w: body is not a JSON object", ErrMalformed)
	}

	var top map[string]json.RawMessage

	if err := json.Unmarshal(trimmed, &top); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if err := validate(trimmed); err != nil {
		return Payload{}, err
	}

	var p Payload

	if err := p.decodeReserved(top); err != nil {
		return Payload{}, err
	}

	graphs, combined := top[KeyGraphs]
	if combined && !isNull(graphs) {
		if err := json.Unmarshal(graphs, &p.Graphs); err != nil {
			return Payload{}, fmt.Errorf("%w: graphs: %w", ErrMalformed, err)
		}

		return p, nil
	}

	p.Graphs = make(map[string]json.RawMessage, len(top))

	for key, raw := range top {
		if reserved(key) {
			continue
		}

		p.Graphs[key] = raw
	}

	return p, nil
}

func validate(body []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		msgs = append(msgs, verr.Field()+": "+verr.Description())
	}

	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
}

func (p *Payload) decodeReserved(top map[string]json.RawMessage) error {
	if raw, ok := top[KeyResponse]; ok && !isNull(raw) {
		var resp Response

		if err := json.Unmarshal(raw, &resp); err != nil {
			return fmt.Errorf("%w: response: %w", ErrMalformed, err)
		}

		p.Response = &resp
	}

	if raw, ok := top[KeyCards]; ok && !isNull(raw) {
		cards, err := DecodeOrdered[float64](raw)
		if err != nil {
			return fmt.Errorf("%w: cards: %w", ErrMalformed, err)
		}

		p.Cards = cards
	}

	p.Categories = stringList(top[KeyCategories])
	p.Locations = stringList(top[KeyLocations])

	return nil
}

// stringList decodes an option list, skipping entries that are not strings.
func stringList(raw json.RawMessage) []string {
	var items []any

	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]string, 0, len(items))

	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

func reserved(key string) bool {
	switch key {
	case KeyGraphs, KeyResponse, KeyCards, KeyCategories, KeyLocations:
		return true
	default:
		return false
	}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Has reports whether metric key carries a non-null dataset.
func (p Payload) Has(key string) bool {
	raw, ok := p.Graphs[key]

	return ok && !isNull(raw)
}

// Raw returns the undecoded dataset of metric key.
func (p Payload) Raw(key string) (json.RawMessage, bool) {
	if !p.Has(key) {
		return nil, false
	}

	return p.Graphs[key], true
}

// Series decodes metric key as a category to number mapping in server order.
func (p Payload) Series(key string) (Series, error) {
	raw, ok := p.Raw(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissing, key)
	}

	entries, err := DecodeOrdered[float64](raw)
	if err != nil {
		return nil, fmt.Errorf("metric %s: %w", key, err)
	}

	return entries, nil
}

// Records decodes metric key into dst.
func (p Payload) Records(key string, dst any) error {
	raw, ok := p.Raw(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissing, key)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("metric %s: %w", key, err)
	}

	return nil
}

// Keys returns the metric keys present in the payload.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p.Graphs))

	for key := range p.Graphs {
		if p.Has(key) {
			keys = append(keys, key)
		}
	}

	slices.Sort(keys)

	return keys
}
