package chart

import (
	"strconv"

	"github.com/Sumatoshi-tech/salesboard/pkg/format"
)

// Format names how a numeric value is turned into text for ticks, tooltips
// and data labels. Formats are plain values so options stay comparable.
type Format string

// Known formats.
const (
	FormatNone           Format = ""
	FormatCurrencyShort  Format = "currency_short"
	FormatCurrencyLong   Format = "currency_long"
	FormatCount          Format = "count"
	FormatPercent        Format = "percent"
	FormatPercentOfTotal Format = "percent_of_total"
	FormatHour           Format = "hour"
	FormatFreqRecency    Format = "freq_recency"
)

// Apply formats v. FormatPercentOfTotal needs the total and is handled by
// ApplyWithTotal; here it falls back to the raw number.
func (f Format) Apply(v float64) string {
	switch f {
	case FormatCurrencyShort:
		return format.Currency(v, true)
	case FormatCurrencyLong:
		return format.Currency(v, false)
	case FormatCount:
		return format.Count(v)
	case FormatPercent:
		return strconv.FormatFloat(v, 'f', 2, 64) + "%"
	case FormatHour:
		return strconv.FormatFloat(v, 'f', 0, 64) + ":00"
	case FormatNone, FormatPercentOfTotal, FormatFreqRecency:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// ApplyWithTotal formats v, using total for FormatPercentOfTotal.
func (f Format) ApplyWithTotal(v, total float64) string {
	if f == FormatPercentOfTotal {
		return format.Percent(v, total)
	}

	return f.Apply(v)
}

// ApplyPoint formats a point sample. Only FormatFreqRecency reads both
// coordinates; other formats format the y value.
func (f Format) ApplyPoint(p Point) string {
	if f == FormatFreqRecency {
		return "Frequency: " + strconv.FormatFloat(p.X, 'f', -1, 64) +
			", Recency: " + strconv.FormatFloat(p.Y, 'f', -1, 64) + " days"
	}

	return f.Apply(p.Y)
}
