// Package format renders numeric values as currency and abbreviated magnitude strings.
package format

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

const (
	currencySymbol = "$"
	zeroCurrency   = "$0"
	zeroNumber     = "0"
	zeroPercent    = "0.0%"
	percentScale   = 100
)

// magnitude is one step of the abbreviation ladder.
type magnitude struct {
	value  float64
	symbol string
}

// magnitudes is ordered from largest to smallest; the first match wins.
var magnitudes = []magnitude{
	{value: 1e9, symbol: "B"},
	{value: 1e6, symbol: "M"},
	{value: 1e3, symbol: "K"},
}

// Currency formats v as US dollars.
//
// With short set, the magnitude is abbreviated ("$1.2M", "$950"). Otherwise the
// full amount is written with thousands separators and no decimals ("$1,235").
// Nil, empty and non-numeric input yields "$0". String input may carry "$" and
// "," characters.
func Currency(v any, short bool) string {
	num, ok := Number(v)
	if !ok {
		return zeroCurrency
	}

	if short {
		return currencySymbol + LargeNumber(num)
	}

	rounded := int64(math.Round(num))
	if rounded < 0 {
		return "-" + currencySymbol + humanize.Comma(-rounded)
	}

	return currencySymbol + humanize.Comma(rounded)
}

// LargeNumber abbreviates v with a K, M or B suffix and one decimal.
// Values below one thousand are rounded to an integer. Invalid input yields "0".
func LargeNumber(v any) string {
	num, ok := Number(v)
	if !ok {
		return zeroNumber
	}

	for _, m := range magnitudes {
		if math.Abs(num) >= m.value {
			return strconv.FormatFloat(num/m.value, 'f', 1, 64) + m.symbol
		}
	}

	return strconv.FormatFloat(num, 'f', 0, 64)
}

// Percent renders value as a share of total with one decimal and a "%" suffix.
func Percent(value, total float64) string {
	if total == 0 || math.IsNaN(total) {
		return zeroPercent
	}

	return strconv.FormatFloat(value/total*percentScale, 'f', 1, 64) + "%"
}

// Count renders v as a thousands-separated integer.
func Count(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// Number coerces v into a float64. The second result is false for nil, empty
// strings, NaN and anything that does not parse as a number.
func Number(v any) (float64, bool) {
	var num float64

	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		num = val
	case float32:
		num = float64(val)
	case int:
		num = float64(val)
	case int64:
		num = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}

		num = parsed
	case string:
		return parseString(val)
	default:
		return reflectNumber(v)
	}

	if math.IsNaN(num) {
		return 0, false
	}

	return num, true
}

func parseString(s string) (float64, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, false
	}

	num, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(num) {
		return 0, false
	}

	return num, true
}

func reflectNumber(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, false
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()

		return f, !math.IsNaN(f)
	case reflect.String:
		return parseString(rv.String())
	default:
		return 0, false
	}
}
