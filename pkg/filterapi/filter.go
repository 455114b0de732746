// Package filterapi is the client of the dashboard filter endpoint.
package filterapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned when a range flag is not "low-high" with low <= high.
var ErrInvalidRange = errors.New("invalid range")

// Range is an inclusive [low, high] slider range.
type Range [2]float64

// Slider bounds.
var (
	AgeBounds     = Range{0, 100}
	RatingBounds  = Range{0, 5}
	InitialAge    = Range{20, 60}
	InitialRating = Range{1, 4.5}
)

// FilterState is the set of filters sent to the endpoint. Unset filters are
// omitted from the request body.
type FilterState struct {
	Category    string `json:"category,omitempty"     yaml:"category,omitempty"`
	Location    string `json:"location,omitempty"     yaml:"location,omitempty"`
	AgeRange    *Range `json:"age_range,omitempty"    yaml:"age_range,omitempty"`
	RatingRange *Range `json:"rating_range,omitempty" yaml:"rating_range,omitempty"`
	StartDate   string `json:"start_date,omitempty"   yaml:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"     yaml:"end_date,omitempty"`
}

// Defaults returns the state a reset restores: no category, location or
// dates and the sliders at their full bounds.
func Defaults() FilterState {
	age, rating := AgeBounds, RatingBounds

	return FilterState{AgeRange: &age, RatingRange: &rating}
}

// Initial returns the state the page opens with.
func Initial() FilterState {
	age, rating := InitialAge, InitialRating

	return FilterState{AgeRange: &age, RatingRange: &rating}
}

// Labeled is one filter as shown in a report.
type Labeled struct {
	Name  string
	Value string
}

// Labels lists every filter in a fixed order. Unset filters have an empty
// value.
func (s FilterState) Labels() []Labeled {
	return []Labeled{
		{Name: "category", Value: s.Category},
		{Name: "location", Value: s.Location},
		{Name: "age_range", Value: s.AgeRange.String()},
		{Name: "rating_range", Value: s.RatingRange.String()},
		{Name: "start_date", Value: s.StartDate},
		{Name: "end_date", Value: s.EndDate},
	}
}

// String renders the range as "low - high". A nil range is empty.
func (r *Range) String() string {
	if r == nil {
		return ""
	}

	return trimFloat(r[0]) + " - " + trimFloat(r[1])
}

// ParseRange parses "low-high" (or "low,high") into a Range.
func ParseRange(s string) (*Range, error) {
	sep := "-"
	if strings.Contains(s, ",") {
		sep = ","
	}

	lowText, highText, ok := strings.Cut(s, sep)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}

	low, err := strconv.ParseFloat(strings.TrimSpace(lowText), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRange, s, err)
	}

	high, err := strconv.ParseFloat(strings.TrimSpace(highText), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRange, s, err)
	}

	if low > high {
		return nil, fmt.Errorf("%w: %q: low above high", ErrInvalidRange, s)
	}

	return &Range{low, high}, nil
}
